package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	ServiceName string
	Environment string
}

// PaymentMetrics is safe to use as a nil pointer; every method is then a no-op.
type PaymentMetrics struct {
	paymentsProcessed *prometheus.CounterVec
	acquirerLatency   *prometheus.HistogramVec
	outboxPublished   *prometheus.CounterVec
}

func NewPaymentMetrics(registerer prometheus.Registerer, cfg Config) *PaymentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "payment-gateway"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	paymentsProcessed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "gateway_payments_processed_total",
			Help:        "Payments processed by final status.",
			ConstLabels: constLabels,
		},
		[]string{"status"}, // Authorized | Declined | Rejected | error
	)

	acquirerLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "gateway_acquirer_request_duration_seconds",
			Help:        "Latency of authorization calls to the acquiring bank.",
			Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			ConstLabels: constLabels,
		},
		[]string{"outcome"}, // authorized | declined | unavailable | failed
	)

	outboxPublished := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "gateway_outbox_messages_total",
			Help:        "Outbox messages relayed to Kafka by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // sent | failed
	)

	registerer.MustRegister(paymentsProcessed, acquirerLatency, outboxPublished)

	return &PaymentMetrics{
		paymentsProcessed: paymentsProcessed,
		acquirerLatency:   acquirerLatency,
		outboxPublished:   outboxPublished,
	}
}

func (m *PaymentMetrics) IncPaymentProcessed(status string) {
	if m == nil {
		return
	}
	m.paymentsProcessed.WithLabelValues(status).Inc()
}

func (m *PaymentMetrics) ObserveAcquirerCall(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.acquirerLatency.WithLabelValues(outcome).Observe(took.Seconds())
}

func (m *PaymentMetrics) AddOutboxPublished(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.outboxPublished.WithLabelValues(result).Add(float64(n))
}
