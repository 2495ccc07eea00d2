package payments_repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ralf-A/chk-payment-gw/internal/domain"
)

type memoryPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]domain.Payment
}

func NewMemoryPaymentRepository() *memoryPaymentRepository {
	return &memoryPaymentRepository{payments: make(map[string]domain.Payment)}
}

func (r *memoryPaymentRepository) Save(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.payments[payment.ID]; exists {
		return fmt.Errorf("payment %s: %w", payment.ID, domain.ErrDuplicatePayment)
	}
	r.payments[payment.ID] = *payment
	return nil
}

func (r *memoryPaymentRepository) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return &payment, nil
}
