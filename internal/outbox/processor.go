package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ralf-A/chk-payment-gw/internal/domain"
	kafkaInfra "github.com/Ralf-A/chk-payment-gw/internal/infrastructure/kafka"
	"github.com/Ralf-A/chk-payment-gw/internal/observability/metrics"
)

type OutboxRepository interface {
	GetPendingMessages(ctx context.Context, querier domain.Querier, limit int) ([]domain.OutboxMessage, error)
	UpdateMessageStatusTx(ctx context.Context, querier domain.Querier, id string, status domain.OutboxMessageStatus) error
	MarkMessagesAsFailed(ctx context.Context, querier domain.Querier, ids []string) error
}

// Processor relays pending outbox rows to Kafka. Each poll works on one batch
// inside a single transaction, so concurrent processors skip each other's rows.
type Processor struct {
	db            *sql.DB
	outboxRepo    OutboxRepository
	kafkaProducer kafkaInfra.Producer
	topic         string
	pollInterval  time.Duration
	pollTimeout   time.Duration
	batchSize     int
	metrics       *metrics.PaymentMetrics
	logger        *zap.Logger
}

func NewProcessor(
	db *sql.DB,
	outboxRepo OutboxRepository,
	kafkaProducer kafkaInfra.Producer,
	topic string,
	pollInterval time.Duration,
	pollTimeout time.Duration,
	batchSize int,
	paymentMetrics *metrics.PaymentMetrics,
	logger *zap.Logger,
) *Processor {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Processor{
		db:            db,
		outboxRepo:    outboxRepo,
		kafkaProducer: kafkaProducer,
		topic:         topic,
		pollInterval:  pollInterval,
		pollTimeout:   pollTimeout,
		batchSize:     batchSize,
		metrics:       paymentMetrics,
		logger:        logger,
	}
}

// Start polls until ctx is cancelled.
func (p *Processor) Start(ctx context.Context) {
	p.logger.Info("Starting outbox processor...", zap.Duration("poll_interval", p.pollInterval), zap.Int("batch_size", p.batchSize))
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox processor stopped.")
			return
		case <-ticker.C:
			if _, err := p.processBatch(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("Failed to process outbox batch", zap.Error(err))
			}
		}
	}
}

// processBatch returns the number of rows published.
func (p *Processor) processBatch(ctx context.Context) (int, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin outbox transaction: %w", err)
	}
	defer tx.Rollback()

	queryCtx, cancel := context.WithTimeout(ctx, p.pollTimeout)
	messages, err := p.outboxRepo.GetPendingMessages(queryCtx, tx, p.batchSize)
	cancel()
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		p.logger.Debug("No pending outbox messages found.")
		return 0, nil
	}
	p.logger.Debug("Found pending outbox messages", zap.Int("count", len(messages)))

	sent := 0
	var failed []string
	for _, msg := range messages {
		if err := p.kafkaProducer.Produce(ctx, msg.Key, p.topic, msg.Payload); err != nil {
			p.logger.Error("Failed to send message to Kafka",
				zap.String("message_id", msg.ID),
				zap.String("aggregate_id", msg.AggregateID),
				zap.String("topic", p.topic),
				zap.Error(err))
			failed = append(failed, msg.ID)
			continue
		}
		if err := p.outboxRepo.UpdateMessageStatusTx(ctx, tx, msg.ID, domain.OutboxStatusSent); err != nil {
			return 0, fmt.Errorf("failed to mark outbox message %s as sent: %w", msg.ID, err)
		}
		sent++
	}

	if err := p.outboxRepo.MarkMessagesAsFailed(ctx, tx, failed); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit outbox transaction: %w", err)
	}

	p.metrics.AddOutboxPublished("sent", sent)
	p.metrics.AddOutboxPublished("failed", len(failed))
	p.logger.Info("Outbox batch processed", zap.Int("sent", sent), zap.Int("failed", len(failed)))
	return sent, nil
}
