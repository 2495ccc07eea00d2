package acquirer

import "github.com/Ralf-A/chk-payment-gw/internal/domain"

// AuthorizationRequest is the body sent to the bank. It is the only outbound
// structure that holds the full card number and CVV.
type AuthorizationRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	Currency   string `json:"currency"`
	Amount     int64  `json:"amount"`
	CVV        string `json:"cvv"`
}

func NewAuthorizationRequest(card domain.CardDetails, expiryDate, currency string, amount int64) AuthorizationRequest {
	return AuthorizationRequest{
		CardNumber: card.Number,
		ExpiryDate: expiryDate,
		Currency:   currency,
		Amount:     amount,
		CVV:        card.CVV,
	}
}

type AuthorizationResult struct {
	Authorized        bool   `json:"authorized"`
	AuthorizationCode string `json:"authorization_code"`
}
