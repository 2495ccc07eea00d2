package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ralf-A/chk-payment-gw/internal/acquirer"
	"github.com/Ralf-A/chk-payment-gw/internal/domain"
	"github.com/Ralf-A/chk-payment-gw/internal/observability/metrics"
	"github.com/Ralf-A/chk-payment-gw/internal/repository/payments_repo"
	"github.com/Ralf-A/chk-payment-gw/internal/util"
	"github.com/Ralf-A/chk-payment-gw/internal/validation"
)

type PaymentService interface {
	ProcessPayment(ctx context.Context, req *domain.PaymentRequest) (*PaymentResponse, error)
	GetPaymentByID(ctx context.Context, id string) (*PaymentResponse, error)
}

type paymentService struct {
	validator   validation.Validator
	acquirer    acquirer.Client
	paymentRepo payments_repo.PaymentRepository
	clock       validation.Clock
	metrics     *metrics.PaymentMetrics
	logger      *zap.Logger
}

func NewPaymentService(
	validator validation.Validator,
	acquirerClient acquirer.Client,
	paymentRepo payments_repo.PaymentRepository,
	clock validation.Clock,
	paymentMetrics *metrics.PaymentMetrics,
	logger *zap.Logger,
) PaymentService {
	if clock == nil {
		clock = validation.SystemClock{}
	}
	return &paymentService{
		validator:   validator,
		acquirer:    acquirerClient,
		paymentRepo: paymentRepo,
		clock:       clock,
		metrics:     paymentMetrics,
		logger:      logger,
	}
}

// ProcessPayment returns a response for every business outcome, including
// Rejected. An error means the outcome could not be determined or stored.
func (s *paymentService) ProcessPayment(ctx context.Context, req *domain.PaymentRequest) (*PaymentResponse, error) {
	id, err := util.GenerateUUID()
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(req); err != nil {
		s.logger.Info("Payment rejected", zap.String("payment_id", id), zap.String("reason", validation.Reason(err)))
		s.metrics.IncPaymentProcessed(string(domain.PaymentStatusRejected))
		return rejectedResponse(id, req), nil
	}

	card := req.Card()
	authReq := acquirer.NewAuthorizationRequest(card, expiryDate(req.ExpiryMonth, req.ExpiryYear), req.Currency, req.Amount)

	status, err := s.authorize(ctx, id, authReq)
	if err != nil {
		s.metrics.IncPaymentProcessed("error")
		return nil, err
	}

	payment := &domain.Payment{
		ID:                 id,
		Status:             status,
		CardNumberLastFour: card.LastFour(),
		ExpiryMonth:        req.ExpiryMonth,
		ExpiryYear:         req.ExpiryYear,
		Currency:           req.Currency,
		Amount:             req.Amount,
		CreatedAt:          s.clock.Now().UTC(),
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		s.logger.Error("Failed to save payment", zap.String("payment_id", id), zap.Error(err))
		s.metrics.IncPaymentProcessed("error")
		return nil, fmt.Errorf("failed to save payment %s: %w", id, err)
	}

	s.logger.Info("Payment processed",
		zap.String("payment_id", id),
		zap.String("status", string(status)),
		zap.Object("card", card),
		zap.Int64("amount", payment.Amount),
		zap.String("currency", payment.Currency),
	)
	s.metrics.IncPaymentProcessed(string(status))
	return ToResponse(payment), nil
}

func (s *paymentService) authorize(ctx context.Context, id string, authReq acquirer.AuthorizationRequest) (domain.PaymentStatus, error) {
	start := time.Now()
	result, err := s.acquirer.Charge(ctx, authReq)
	took := time.Since(start)

	switch {
	case err == nil && result != nil && result.Authorized:
		s.metrics.ObserveAcquirerCall("authorized", took)
		return domain.PaymentStatusAuthorized, nil
	case err == nil && result != nil:
		s.metrics.ObserveAcquirerCall("declined", took)
		return domain.PaymentStatusDeclined, nil
	case errors.Is(err, acquirer.ErrAcquirerUnavailable):
		s.metrics.ObserveAcquirerCall("unavailable", took)
		s.logger.Warn("Acquirer unavailable, declining payment", zap.String("payment_id", id), zap.Error(err))
		return domain.PaymentStatusDeclined, nil
	case err == nil:
		s.metrics.ObserveAcquirerCall("failed", took)
		return "", fmt.Errorf("acquirer returned no result for payment %s", id)
	default:
		s.metrics.ObserveAcquirerCall("failed", took)
		s.logger.Error("Acquirer call failed", zap.String("payment_id", id), zap.Error(err))
		return "", fmt.Errorf("failed to authorize payment %s: %w", id, err)
	}
}

func (s *paymentService) GetPaymentByID(ctx context.Context, id string) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPaymentNotFound, id)
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", id, err)
	}
	return ToResponse(payment), nil
}

func rejectedResponse(id string, req *domain.PaymentRequest) *PaymentResponse {
	resp := &PaymentResponse{ID: id, Status: domain.PaymentStatusRejected}
	if req != nil {
		resp.ExpiryMonth = req.ExpiryMonth
		resp.ExpiryYear = req.ExpiryYear
		resp.Currency = req.Currency
		resp.Amount = req.Amount
	}
	return resp
}

func expiryDate(month, year int) string {
	return fmt.Sprintf("%02d/%d", month, year)
}
