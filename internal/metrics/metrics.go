package metrics

import (
	"strconv"
	"time"

	"github.com/mikey/email-verify-api/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification pipeline.
// All methods are safe to call on a nil receiver.
type Metrics struct {
	// Check latencies by check name
	CheckLatency *prometheus.HistogramVec

	// Overall verification latency
	VerifyLatency prometheus.Histogram

	// Verification outcomes by risk level and validity
	Outcomes *prometheus.CounterVec

	// SMTP probe verdicts
	ProbeResults *prometheus.CounterVec

	// DNS failures by code
	DNSFailures *prometheus.CounterVec

	// Disposable store read failures
	DisposableStoreFailures prometheus.Counter

	// Disposable list refreshes by result, and size of the last published list
	Refreshes          *prometheus.CounterVec
	DisposableListSize prometheus.Gauge
}

// New creates a new Metrics instance registered with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CheckLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "email_verify_check_duration_seconds",
			Help:    "Duration of individual verification checks",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"check"}), // check: "domain", "disposable", "role", "smtp"

		VerifyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "email_verify_duration_seconds",
			Help:    "Duration of a full verification",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),

		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "email_verify_outcomes_total",
			Help: "Verification outcomes by risk level and validity",
		}, []string{"risk_level", "valid"}),

		ProbeResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "email_verify_smtp_probe_results_total",
			Help: "SMTP probe verdicts",
		}, []string{"verdict"}), // verdict: "accepted", "rejected", "timeout", "conn_error"

		DNSFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "email_verify_dns_failures_total",
			Help: "MX lookup failures by code",
		}, []string{"code"}),

		DisposableStoreFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "email_verify_disposable_store_failures_total",
			Help: "Disposable domain store read failures",
		}),

		Refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "email_verify_disposable_refreshes_total",
			Help: "Disposable list refresh attempts by result",
		}, []string{"result"}),

		DisposableListSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "email_verify_disposable_domains",
			Help: "Number of domains in the last published disposable list",
		}),
	}
}

// ObserveCheckLatency records the duration of one check
func (m *Metrics) ObserveCheckLatency(check string, d time.Duration) {
	if m != nil {
		m.CheckLatency.WithLabelValues(check).Observe(d.Seconds())
	}
}

// ObserveVerifyLatency records the duration of a full verification
func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	if m != nil {
		m.VerifyLatency.Observe(d.Seconds())
	}
}

// IncOutcome records a verification outcome
func (m *Metrics) IncOutcome(level core.RiskLevel, valid bool) {
	if m != nil {
		m.Outcomes.WithLabelValues(string(level), strconv.FormatBool(valid)).Inc()
	}
}

// IncProbeResult records an SMTP probe verdict
func (m *Metrics) IncProbeResult(verdict string) {
	if m != nil {
		m.ProbeResults.WithLabelValues(verdict).Inc()
	}
}

// IncDNSFailure records a failed MX lookup
func (m *Metrics) IncDNSFailure(code string) {
	if m != nil {
		m.DNSFailures.WithLabelValues(code).Inc()
	}
}

// IncDisposableStoreFailure records a disposable store read failure
func (m *Metrics) IncDisposableStoreFailure() {
	if m != nil {
		m.DisposableStoreFailures.Inc()
	}
}

// ObserveRefresh records a refresh attempt and, on success, the list size
func (m *Metrics) ObserveRefresh(err error, size int) {
	if m == nil {
		return
	}
	if err != nil {
		m.Refreshes.WithLabelValues("error").Inc()
		return
	}
	m.Refreshes.WithLabelValues("success").Inc()
	m.DisposableListSize.Set(float64(size))
}
