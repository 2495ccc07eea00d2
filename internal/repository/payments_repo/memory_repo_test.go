package payments_repo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Ralf-A/chk-payment-gw/internal/domain"
)

func TestMemorySaveAndGet(t *testing.T) {
	repo := NewMemoryPaymentRepository()
	ctx := context.Background()
	p := testPayment()

	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if *got != *p {
		t.Fatalf("got %+v, want %+v", got, p)
	}

	got.Status = domain.PaymentStatusDeclined
	again, _ := repo.GetByID(ctx, p.ID)
	if again.Status != domain.PaymentStatusAuthorized {
		t.Fatal("mutating a returned record changed the stored one")
	}
}

func TestMemoryDuplicateAndMissing(t *testing.T) {
	repo := NewMemoryPaymentRepository()
	ctx := context.Background()
	p := testPayment()

	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, p); !errors.Is(err, domain.ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	repo := NewMemoryPaymentRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := testPayment()
			p.ID = fmt.Sprintf("payment-%d", i)
			if err := repo.Save(ctx, p); err != nil {
				t.Errorf("Save %s: %v", p.ID, err)
				return
			}
			if _, err := repo.GetByID(ctx, p.ID); err != nil {
				t.Errorf("GetByID %s: %v", p.ID, err)
			}
		}(i)
	}
	wg.Wait()
}
