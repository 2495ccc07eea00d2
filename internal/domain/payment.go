package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrDuplicatePayment = errors.New("payment already exists")
)

type PaymentStatus string

const (
	PaymentStatusAuthorized PaymentStatus = "Authorized"
	PaymentStatusDeclined   PaymentStatus = "Declined"
	PaymentStatusRejected   PaymentStatus = "Rejected"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusAuthorized, PaymentStatusDeclined, PaymentStatusRejected:
		return true
	}
	return false
}

// Payment is the stored outcome of a single processing call. It never holds
// the full card number or the CVV.
type Payment struct {
	ID                 string        `json:"id"`
	Status             PaymentStatus `json:"status"`
	CardNumberLastFour string        `json:"card_number_last_four"`
	ExpiryMonth        int           `json:"expiry_month"`
	ExpiryYear         int           `json:"expiry_year"`
	Currency           string        `json:"currency"`
	Amount             int64         `json:"amount"`
	CreatedAt          time.Time     `json:"created_at"`
}
