package domain

import (
	"time"

	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

const PaymentProcessedMessageType = "payment.processed"

// minorUnitExponent covers every accepted currency (GBP, USD, EUR).
const minorUnitExponent = -2

// PaymentProcessedEvent is published once per persisted payment.
type PaymentProcessedEvent struct {
	PaymentID          string    `json:"payment_id"`
	Status             string    `json:"status"`
	CardNumberLastFour string    `json:"card_number_last_four"`
	Currency           string    `json:"currency"`
	Amount             int64     `json:"amount"`
	DisplayAmount      string    `json:"display_amount"`
	Timestamp          time.Time `json:"timestamp"`
}

func NewPaymentProcessedEvent(p *Payment) PaymentProcessedEvent {
	return PaymentProcessedEvent{
		PaymentID:          p.ID,
		Status:             string(p.Status),
		CardNumberLastFour: p.CardNumberLastFour,
		Currency:           p.Currency,
		Amount:             p.Amount,
		DisplayAmount:      DisplayAmount(p.Amount),
		Timestamp:          p.CreatedAt,
	}
}

// DisplayAmount renders minor units as a major-unit decimal string, e.g. 1050 -> "10.50".
func DisplayAmount(minor int64) string {
	return decimal.New(minor, minorUnitExponent).StringFixed(2)
}

// NewPaymentOutboxMessage builds the outbox row announcing p.
func NewPaymentOutboxMessage(id string, p *Payment) (*OutboxMessage, error) {
	payload, err := json.Marshal(NewPaymentProcessedEvent(p))
	if err != nil {
		return nil, err
	}
	return &OutboxMessage{
		ID:          id,
		AggregateID: p.ID,
		MessageType: PaymentProcessedMessageType,
		Key:         p.ID,
		Payload:     payload,
		Status:      OutboxStatusPending,
		CreatedAt:   p.CreatedAt,
	}, nil
}
