package domain

// PaymentRequest is the merchant's untrusted input. Nothing is checked at
// construction; see the validation package.
type PaymentRequest struct {
	CardNumber  string `json:"cardNumber"`
	ExpiryMonth int    `json:"expiryMonth"`
	ExpiryYear  int    `json:"expiryYear"`
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
	CVV         string `json:"cvv"`
}

// Card returns the sensitive part of the request.
func (r *PaymentRequest) Card() CardDetails {
	return CardDetails{Number: r.CardNumber, CVV: r.CVV}
}
