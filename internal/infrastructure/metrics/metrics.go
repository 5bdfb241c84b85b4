package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UPIMetrics covers the order lifecycle end to end: creation, UTR
// intake, operator decisions and the expiration sweeper.
type UPIMetrics struct {
	OrdersCreatedTotal       prometheus.CounterVec
	OrdersCreatedAmountTotal prometheus.CounterVec

	OrderTransitionsTotal prometheus.CounterVec

	UTRSubmissionsTotal prometheus.CounterVec

	OrdersExpiredTotal prometheus.CounterVec

	SweepDuration      prometheus.Histogram
	SweepFailuresTotal prometheus.Counter

	DecisionDuration prometheus.HistogramVec

	AuditAppendTotal         prometheus.CounterVec
	AuditAppendFailuresTotal prometheus.Counter
	AuditRetryQueueDepth     prometheus.Gauge

	OrderErrorsTotal prometheus.CounterVec
}

func NewUPIMetrics() *UPIMetrics {
	return NewUPIMetricsWith(prometheus.DefaultRegisterer)
}

// NewUPIMetricsWith registers all collectors against the given registerer.
// Tests pass a fresh registry to avoid duplicate registration panics.
func NewUPIMetricsWith(reg prometheus.Registerer) *UPIMetrics {
	factory := promauto.With(reg)

	return &UPIMetrics{
		OrdersCreatedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upi_orders_created_total",
				Help: "Orders created, labeled by where the pay address came from",
			},
			[]string{"pay_address_source"},
		),

		OrdersCreatedAmountTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upi_orders_created_amount_total",
				Help: "Total INR amount of created orders",
			},
			[]string{"pay_address_source"},
		),

		OrderTransitionsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upi_order_transitions_total",
				Help: "Status transitions committed through the conditional update path",
			},
			[]string{"from_status", "to_status"},
		),

		UTRSubmissionsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upi_utr_submissions_total",
				Help: "UTR submissions by outcome (accepted, duplicate, invalid, stale, rejected)",
			},
			[]string{"outcome"},
		),

		OrdersExpiredTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upi_orders_expired_total",
				Help: "Orders moved to EXPIRED, labeled by who noticed (sweeper, lazy read)",
			},
			[]string{"source"},
		),

		SweepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "upi_sweep_duration_seconds",
				Help:    "Wall time of one expiration sweep",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),

		SweepFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "upi_sweep_failures_total",
				Help: "Per-order failures inside sweeps; the sweep itself keeps going",
			},
		),

		DecisionDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upi_order_decision_duration_seconds",
				Help:    "Time from order creation to the terminal decision",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"final_status"},
		),

		AuditAppendTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upi_audit_append_total",
				Help: "Audit entries appended by action",
			},
			[]string{"action"},
		),

		AuditAppendFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "upi_audit_append_failures_total",
				Help: "Audit appends that failed and were queued for retry",
			},
		),

		AuditRetryQueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "upi_audit_retry_queue_depth",
				Help: "Entries currently waiting in the audit retry queue",
			},
		),

		OrderErrorsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upi_order_errors_total",
				Help: "Operation failures by error kind",
			},
			[]string{"operation", "kind"},
		),
	}
}

func (m *UPIMetrics) RecordOrderCreated(payAddressSource string, amount float64) {
	m.OrdersCreatedTotal.WithLabelValues(payAddressSource).Inc()
	m.OrdersCreatedAmountTotal.WithLabelValues(payAddressSource).Add(amount)
}

func (m *UPIMetrics) RecordTransition(from, to string) {
	m.OrderTransitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *UPIMetrics) RecordUTRSubmission(outcome string) {
	m.UTRSubmissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *UPIMetrics) RecordExpired(source string, count int) {
	m.OrdersExpiredTotal.WithLabelValues(source).Add(float64(count))
}

func (m *UPIMetrics) RecordSweep(durationSeconds float64, failures int) {
	m.SweepDuration.Observe(durationSeconds)
	if failures > 0 {
		m.SweepFailuresTotal.Add(float64(failures))
	}
}

func (m *UPIMetrics) RecordDecisionDuration(finalStatus string, seconds float64) {
	m.DecisionDuration.WithLabelValues(finalStatus).Observe(seconds)
}

func (m *UPIMetrics) RecordAuditAppend(action string) {
	m.AuditAppendTotal.WithLabelValues(action).Inc()
}

func (m *UPIMetrics) RecordAuditAppendFailure() {
	m.AuditAppendFailuresTotal.Inc()
}

func (m *UPIMetrics) SetAuditRetryQueueDepth(depth int) {
	m.AuditRetryQueueDepth.Set(float64(depth))
}

func (m *UPIMetrics) RecordError(operation, kind string) {
	m.OrderErrorsTotal.WithLabelValues(operation, kind).Inc()
}
