package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Ralf-A/chk-payment-gw/internal/domain"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{14,19}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

var supportedCurrencies = map[string]struct{}{
	"GBP": {},
	"USD": {},
	"EUR": {},
}

// Validator checks a payment request before it reaches the acquirer.
type Validator interface {
	Validate(req *domain.PaymentRequest) error
}

type paymentRequestValidator struct {
	clock Clock
}

func NewValidator(clock Clock) Validator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &paymentRequestValidator{clock: clock}
}

// Validate applies the rules in order and reports the first one that fails.
// Every returned error wraps domain.ErrInvalidRequest.
func (v *paymentRequestValidator) Validate(req *domain.PaymentRequest) error {
	if req == nil {
		return invalid("request must not be null")
	}
	if !cardNumberPattern.MatchString(req.CardNumber) {
		return invalid("invalid card number")
	}
	if !cvvPattern.MatchString(req.CVV) {
		return invalid("invalid CVV")
	}
	if req.Amount <= 0 {
		return invalid("amount must be greater than zero")
	}
	if _, ok := supportedCurrencies[req.Currency]; !ok {
		return invalid("currency must be one of GBP, USD, or EUR")
	}
	return v.validateExpiry(req.ExpiryMonth, req.ExpiryYear)
}

func (v *paymentRequestValidator) validateExpiry(month, year int) error {
	if month < 1 || month > 12 {
		return invalid("expiry month must be between 1 and 12")
	}

	now := v.clock.Now().UTC()
	if year < now.Year() {
		return invalid("card expiry year must not be in the past")
	}

	expiry := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if expiry.Before(current) {
		return invalid("card expiry date must be in the future")
	}
	return nil
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, reason)
}

// Reason strips the sentinel prefix from a validation error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	if reason, ok := strings.CutPrefix(err.Error(), domain.ErrInvalidRequest.Error()+": "); ok {
		return reason
	}
	return err.Error()
}
