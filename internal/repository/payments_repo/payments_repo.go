package payments_repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Ralf-A/chk-payment-gw/internal/domain"
)

const uniqueViolation = "23505"

type paymentRepository struct {
	db     *sql.DB
	outbox OutboxWriter
	logger *zap.Logger
}

// NewPaymentRepository returns the Postgres store. When outbox is non-nil every
// saved payment also gets a payment.processed outbox row in the same
// transaction.
func NewPaymentRepository(db *sql.DB, outbox OutboxWriter, logger *zap.Logger) *paymentRepository {
	return &paymentRepository{db: db, outbox: outbox, logger: logger}
}

func (r *paymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := r.saveTx(ctx, tx, payment); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Failed to roll back payment transaction", zap.String("payment_id", payment.ID), zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment %s: %w", payment.ID, err)
	}
	return nil
}

func (r *paymentRepository) saveTx(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, status, card_number_last_four, expiry_month, expiry_year, currency, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		payment.ID,
		string(payment.Status),
		payment.CardNumberLastFour,
		payment.ExpiryMonth,
		payment.ExpiryYear,
		payment.Currency,
		payment.Amount,
		payment.CreatedAt,
	)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("payment %s: %w", payment.ID, domain.ErrDuplicatePayment)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	if r.outbox == nil {
		return nil
	}
	msg, err := domain.NewPaymentOutboxMessage(uuid.NewString(), payment)
	if err != nil {
		return fmt.Errorf("failed to prepare outbox message for payment %s: %w", payment.ID, err)
	}
	if err := r.outbox.CreateMessageTx(ctx, tx, msg); err != nil {
		return fmt.Errorf("failed to create outbox message for payment %s: %w", payment.ID, err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, status, card_number_last_four, expiry_month, expiry_year, currency, amount, created_at
		FROM payments
		WHERE id = $1
	`
	payment := &domain.Payment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID,
		&payment.Status,
		&payment.CardNumberLastFour,
		&payment.ExpiryMonth,
		&payment.ExpiryYear,
		&payment.Currency,
		&payment.Amount,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by id %s: %w", id, err)
	}
	return payment, nil
}
