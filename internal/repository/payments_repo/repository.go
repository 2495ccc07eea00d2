package payments_repo

import (
	"context"

	"github.com/Ralf-A/chk-payment-gw/internal/domain"
)

// PaymentRepository stores write-once payment records keyed by id.
type PaymentRepository interface {
	Save(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
}

// OutboxWriter records an event inside the caller's transaction.
type OutboxWriter interface {
	CreateMessageTx(ctx context.Context, querier domain.Querier, msg *domain.OutboxMessage) error
}
