package payments_http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Ralf-A/chk-payment-gw/internal/acquirer"
	"github.com/Ralf-A/chk-payment-gw/internal/app/payments"
	"github.com/Ralf-A/chk-payment-gw/internal/domain"
)

const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeAcquirerUnavailable = "ACQUIRER_UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"

	internalErrorMessage = "An unexpected error occurred"

	maxRequestBodyBytes = 64 << 10
)

type PaymentHandler struct {
	service payments.PaymentService
	logger  *zap.Logger
	now     func() time.Time
}

func NewPaymentHandler(s payments.PaymentService, l *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: s, logger: l, now: time.Now}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Timestamp   string       `json:"timestamp"`
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	FieldErrors []FieldError `json:"fieldErrors"`
}

func (h *PaymentHandler) ProcessPaymentHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var req *domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Decode errors quote the raw body, which holds the card number and CVV.
		h.logger.Warn("Invalid payment request body",
			zap.String("reason", decodeFailureReason(err)),
			zap.Int64("content_length", r.ContentLength),
		)
		h.writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Malformed request body")
		return
	}

	resp, err := h.service.ProcessPayment(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func decodeFailureReason(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "http: request body too large") {
		return "body_too_large"
	}
	return "malformed_json"
}

func (h *PaymentHandler) GetPaymentHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Payment id must be a UUID")
		return
	}

	resp, err := h.service.GetPaymentByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound):
		h.writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidRequest):
		h.writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	case errors.Is(err, acquirer.ErrAcquirerUnavailable):
		h.writeError(w, http.StatusServiceUnavailable, CodeAcquirerUnavailable, "Acquirer is unavailable, payment declined")
	default:
		h.logger.Error("Payment request failed", zap.Error(err))
		h.writeError(w, http.StatusServiceUnavailable, CodeInternalError, internalErrorMessage)
	}
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Timestamp:   h.now().UTC().Format(time.RFC3339),
		Code:        code,
		Message:     message,
		FieldErrors: []FieldError{},
	})
}

func (h *PaymentHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
