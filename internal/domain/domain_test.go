package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testPAN = "2222405343248877"

func TestLastFour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2222405343248877", "8877"},
		{"12345678901234", "1234"},
		{"1234567890123456789", "6789"},
	}
	for _, tt := range tests {
		if got := LastFour(tt.in); got != tt.want {
			t.Fatalf("LastFour(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCardDetailsNeverPrintsRawValues(t *testing.T) {
	card := CardDetails{Number: testPAN, CVV: "123"}

	outputs := []string{
		card.String(),
		fmt.Sprintf("%v", card),
		fmt.Sprintf("%+v", card),
		fmt.Sprintf("%#v", card),
	}
	raw, err := json.Marshal(struct {
		Card CardDetails `json:"card"`
	}{card})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	outputs = append(outputs, string(raw))

	for _, out := range outputs {
		if strings.Contains(out, testPAN) || strings.Contains(out, "123\"") {
			t.Fatalf("raw card data leaked: %s", out)
		}
		if !strings.Contains(out, "8877") {
			t.Fatalf("expected last four in %s", out)
		}
	}
}

func TestCardDetailsJSONEscapesTail(t *testing.T) {
	raw, err := json.Marshal(CardDetails{Number: `1234567890a"\\`, CVV: "123"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("invalid JSON: %s", raw)
	}
	var decoded struct {
		Number string `json:"number"`
		CVV    string `json:"cvv"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Number != `****a"\\` || decoded.CVV != "***" {
		t.Fatalf("unexpected masked card %+v", decoded)
	}
}

func TestCardDetailsLogObjectIsMasked(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	logger.Info("charging", zap.Object("card", CardDetails{Number: testPAN, CVV: "987"}))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	card, ok := entries[0].ContextMap()["card"].(map[string]any)
	if !ok {
		t.Fatalf("expected card object in log context")
	}
	if card["number"] != "****8877" {
		t.Fatalf("expected masked number, got %v", card["number"])
	}
	if card["cvv"] != "***" {
		t.Fatalf("expected masked cvv, got %v", card["cvv"])
	}
}

func TestNewPaymentOutboxMessage(t *testing.T) {
	created := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	p := &Payment{
		ID:                 "pay-1",
		Status:             PaymentStatusAuthorized,
		CardNumberLastFour: "8877",
		ExpiryMonth:        12,
		ExpiryYear:         2099,
		Currency:           "GBP",
		Amount:             1050,
		CreatedAt:          created,
	}

	msg, err := NewPaymentOutboxMessage("out-1", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Status != OutboxStatusPending || msg.Key != "pay-1" || msg.MessageType != PaymentProcessedMessageType {
		t.Fatalf("unexpected outbox message: %+v", msg)
	}

	var event PaymentProcessedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if event.DisplayAmount != "10.50" {
		t.Fatalf("expected display amount 10.50, got %q", event.DisplayAmount)
	}
	if event.Status != "Authorized" || event.CardNumberLastFour != "8877" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestPaymentStatusValid(t *testing.T) {
	for _, s := range []PaymentStatus{PaymentStatusAuthorized, PaymentStatusDeclined, PaymentStatusRejected} {
		if !s.Valid() {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if PaymentStatus("Pending").Valid() {
		t.Fatalf("Pending must not be a valid status")
	}
}
