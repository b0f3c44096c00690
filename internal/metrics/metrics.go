package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Config labels every series exported by the ledger.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics holds the ledger counters. A nil *Metrics is valid and records
// nothing, so services can run without a registry.
type Metrics struct {
	payments        *prometheus.CounterVec
	chargesApplied  prometheus.Counter
	chargesRejected prometheus.Counter
	billsSkipped    prometheus.Counter
	statusOverrides *prometheus.CounterVec
	tenancies       *prometheus.CounterVec
	rateFallbacks   *prometheus.CounterVec
	reminders       prometheus.Counter
	rateLimited     prometheus.Counter
}

// New registers the ledger counters on registerer.
func New(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "rentledger"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rentledger_payments_total",
			Help:        "Payments recorded against bills by method.",
			ConstLabels: constLabels,
		}, []string{"method"}),
		chargesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rentledger_charges_applied_total",
			Help:        "Extra charge lines appended to bills.",
			ConstLabels: constLabels,
		}),
		chargesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rentledger_charges_rejected_total",
			Help:        "Extra charge lines rejected before reaching a bill.",
			ConstLabels: constLabels,
		}),
		billsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rentledger_bulk_bills_skipped_total",
			Help:        "Bills skipped by bulk charge runs.",
			ConstLabels: constLabels,
		}),
		statusOverrides: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rentledger_status_overrides_total",
			Help:        "Manual bill status overrides by target status.",
			ConstLabels: constLabels,
		}, []string{"target"}),
		tenancies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rentledger_tenancy_events_total",
			Help:        "Tenancy lifecycle events.",
			ConstLabels: constLabels,
		}, []string{"event"}),
		rateFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rentledger_rate_fallbacks_total",
			Help:        "Bills seeded with a rate other than the preferred cycle.",
			ConstLabels: constLabels,
		}, []string{"preferred", "used"}),
		reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rentledger_reminders_sent_total",
			Help:        "Payment reminders handed to the notifier.",
			ConstLabels: constLabels,
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "rentledger_http_rate_limited_total",
			Help:        "HTTP requests denied by the rate limiter.",
			ConstLabels: constLabels,
		}),
	}

	registerer.MustRegister(
		m.payments,
		m.chargesApplied,
		m.chargesRejected,
		m.billsSkipped,
		m.statusOverrides,
		m.tenancies,
		m.rateFallbacks,
		m.reminders,
		m.rateLimited,
	)

	return m
}

// Tenancy lifecycle event labels.
const (
	TenancyCreated    = "created"
	TenancyRejected   = "rejected"
	TenancyTerminated = "terminated"
)

func (m *Metrics) RecordPayment(method string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(strings.TrimSpace(method)).Inc()
}

func (m *Metrics) RecordCharges(applied, rejected, skipped int) {
	if m == nil {
		return
	}
	m.chargesApplied.Add(float64(applied))
	m.chargesRejected.Add(float64(rejected))
	m.billsSkipped.Add(float64(skipped))
}

func (m *Metrics) RecordStatusOverride(target string) {
	if m == nil {
		return
	}
	m.statusOverrides.WithLabelValues(target).Inc()
}

func (m *Metrics) RecordTenancy(event string) {
	if m == nil {
		return
	}
	m.tenancies.WithLabelValues(event).Inc()
}

func (m *Metrics) RecordRateFallback(preferred, used string) {
	if m == nil {
		return
	}
	m.rateFallbacks.WithLabelValues(preferred, used).Inc()
}

func (m *Metrics) RecordReminders(n int) {
	if m == nil {
		return
	}
	m.reminders.Add(float64(n))
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
