package outbox_repo

import (
	"context"

	"github.com/Ralf-A/chk-payment-gw/internal/domain"
)

type OutboxRepository interface {
	CreateMessageTx(ctx context.Context, querier domain.Querier, msg *domain.OutboxMessage) error
	GetPendingMessages(ctx context.Context, querier domain.Querier, limit int) ([]domain.OutboxMessage, error)
	UpdateMessageStatusTx(ctx context.Context, querier domain.Querier, id string, status domain.OutboxMessageStatus) error
	MarkMessagesAsFailed(ctx context.Context, querier domain.Querier, ids []string) error
}
