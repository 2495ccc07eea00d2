package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/Ralf-A/chk-payment-gw/internal/domain"
)

var now = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func validRequest() *domain.PaymentRequest {
	return &domain.PaymentRequest{
		CardNumber:  "2222405343248877",
		ExpiryMonth: 11,
		ExpiryYear:  2026,
		Currency:    "GBP",
		Amount:      100,
		CVV:         "123",
	}
}

func TestValidateAcceptsValidRequest(t *testing.T) {
	v := NewValidator(FixedClock(now))
	if err := v.Validate(validRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *domain.PaymentRequest)
		reason string
	}{
		{"card too short", func(r *domain.PaymentRequest) { r.CardNumber = "123" }, "invalid card number"},
		{"card too long", func(r *domain.PaymentRequest) { r.CardNumber = "12345678901234567890" }, "invalid card number"},
		{"card not digits", func(r *domain.PaymentRequest) { r.CardNumber = "2222-4053-4324-88" }, "invalid card number"},
		{"card empty", func(r *domain.PaymentRequest) { r.CardNumber = "" }, "invalid card number"},
		{"cvv too short", func(r *domain.PaymentRequest) { r.CVV = "12" }, "invalid CVV"},
		{"cvv too long", func(r *domain.PaymentRequest) { r.CVV = "12345" }, "invalid CVV"},
		{"cvv letters", func(r *domain.PaymentRequest) { r.CVV = "12a" }, "invalid CVV"},
		{"zero amount", func(r *domain.PaymentRequest) { r.Amount = 0 }, "amount must be greater than zero"},
		{"negative amount", func(r *domain.PaymentRequest) { r.Amount = -5 }, "amount must be greater than zero"},
		{"unsupported currency", func(r *domain.PaymentRequest) { r.Currency = "JPY" }, "currency must be one of GBP, USD, or EUR"},
		{"lowercase currency", func(r *domain.PaymentRequest) { r.Currency = "gbp" }, "currency must be one of GBP, USD, or EUR"},
		{"month zero", func(r *domain.PaymentRequest) { r.ExpiryMonth = 0 }, "expiry month must be between 1 and 12"},
		{"month thirteen", func(r *domain.PaymentRequest) { r.ExpiryMonth = 13 }, "expiry month must be between 1 and 12"},
		{"year in past", func(r *domain.PaymentRequest) { r.ExpiryYear = 2025; r.ExpiryMonth = 12 }, "card expiry year must not be in the past"},
		{"month in past", func(r *domain.PaymentRequest) { r.ExpiryMonth = 9 }, "card expiry date must be in the future"},
	}

	v := NewValidator(FixedClock(now))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.Validate(req)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
			if got := Reason(err); got != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, got)
			}
		})
	}
}

func TestValidateNilRequest(t *testing.T) {
	err := NewValidator(FixedClock(now)).Validate(nil)
	if Reason(err) != "request must not be null" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	req := &domain.PaymentRequest{
		CardNumber:  "",
		ExpiryMonth: 13,
		Currency:    "XXX",
		Amount:      0,
		CVV:         "1",
	}
	err := NewValidator(FixedClock(now)).Validate(req)
	if Reason(err) != "invalid card number" {
		t.Fatalf("expected card number rule to fail first, got %v", err)
	}
}

func TestValidateExpiryBoundary(t *testing.T) {
	v := NewValidator(FixedClock(now))

	current := validRequest()
	current.ExpiryMonth = int(now.Month())
	current.ExpiryYear = now.Year()
	if err := v.Validate(current); err != nil {
		t.Fatalf("card expiring this month must be valid, got %v", err)
	}

	previous := validRequest()
	previous.ExpiryMonth = int(now.Month()) - 1
	previous.ExpiryYear = now.Year()
	if err := v.Validate(previous); err == nil {
		t.Fatalf("card that expired last month must be invalid")
	}
}

func TestValidateExpiryAcrossYearBoundary(t *testing.T) {
	january := FixedClock(time.Date(2027, time.January, 3, 0, 0, 0, 0, time.UTC))
	v := NewValidator(january)

	req := validRequest()
	req.ExpiryMonth = 12
	req.ExpiryYear = 2026
	if Reason(v.Validate(req)) != "card expiry year must not be in the past" {
		t.Fatalf("expected year rule to reject December of the previous year")
	}

	req.ExpiryMonth = 1
	req.ExpiryYear = 2027
	if err := v.Validate(req); err != nil {
		t.Fatalf("January of the current year must be valid in January, got %v", err)
	}
}
