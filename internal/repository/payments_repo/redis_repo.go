package payments_repo

import (
	"context"
	"errors"
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/Ralf-A/chk-payment-gw/internal/domain"
)

const redisKeyPrefix = "payments:record:"

type redisPaymentRepository struct {
	client *redis.Client
}

func NewRedisPaymentRepository(client *redis.Client) *redisPaymentRepository {
	return &redisPaymentRepository{client: client}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (r *redisPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	data, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("[redis] failed to marshal payment %s: %w", payment.ID, err)
	}

	created, err := r.client.SetNX(ctx, redisKey(payment.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("[redis] failed to save payment %s: %w", payment.ID, err)
	}
	if !created {
		return fmt.Errorf("payment %s: %w", payment.ID, domain.ErrDuplicatePayment)
	}
	return nil
}

func (r *redisPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	data, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("[redis] failed to get payment %s: %w", id, err)
	}

	var payment domain.Payment
	if err := json.Unmarshal(data, &payment); err != nil {
		return nil, fmt.Errorf("[redis] failed to unmarshal payment %s: %w", id, err)
	}
	return &payment, nil
}
