package payments

import "github.com/Ralf-A/chk-payment-gw/internal/domain"

// PaymentResponse is what merchants see for a processed or retrieved payment.
type PaymentResponse struct {
	ID                 string               `json:"id"`
	Status             domain.PaymentStatus `json:"status"`
	CardNumberLastFour string               `json:"cardNumberLastFour"`
	ExpiryMonth        int                  `json:"expiryMonth"`
	ExpiryYear         int                  `json:"expiryYear"`
	Currency           string               `json:"currency"`
	Amount             int64                `json:"amount"`
}

func ToResponse(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:                 p.ID,
		Status:             p.Status,
		CardNumberLastFour: p.CardNumberLastFour,
		ExpiryMonth:        p.ExpiryMonth,
		ExpiryYear:         p.ExpiryYear,
		Currency:           p.Currency,
		Amount:             p.Amount,
	}
}
