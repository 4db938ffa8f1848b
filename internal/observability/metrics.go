package observability

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/yungbote/sitework-backend/internal/platform/envutil"
)

// Metrics is a small Prometheus text-format registry for the API and the
// specification engine. A nil *Metrics ignores every call.
type Metrics struct {
	apiRequests    *CounterVec
	apiLatency     *HistogramVec
	apiInflight    *Gauge
	specMatches    *HistogramVec
	complianceRuns *CounterVec
	violations     *CounterVec
	recommendation *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide registry, or returns nil when METRICS_ENABLED
// is off.
func Init() *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() { instance = NewMetrics() })
	return instance
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("sw_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"sw_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("sw_api_inflight_requests", "In-flight API requests."),
		specMatches: NewHistogramVec(
			"sw_spec_matches",
			"Applicable specifications per matching call.",
			[]string{"operation"},
			[]float64{0, 1, 2, 5, 10, 25, 50},
		),
		complianceRuns: NewCounterVec("sw_compliance_checks_total", "Compliance checks by verdict.", []string{"verdict"}),
		violations:     NewCounterVec("sw_compliance_violations_total", "Violations reported by compliance checks.", []string{"kind"}),
		recommendation: NewCounterVec("sw_recommendations_total", "Product recommendations by outcome.", []string{"outcome"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.specMatches,
		m.complianceRuns,
		m.violations,
		m.recommendation,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) ObserveSpecMatches(operation string, n int) {
	if m == nil {
		return
	}
	m.specMatches.Observe(float64(n), operation)
}

// ObserveCompliance records one verdict and the reason kind of each violation.
func (m *Metrics) ObserveCompliance(allowed bool, violationKinds ...string) {
	if m == nil {
		return
	}
	verdict := "denied"
	if allowed {
		verdict = "allowed"
	}
	m.complianceRuns.Inc(verdict)
	for _, k := range violationKinds {
		m.violations.Inc(k)
	}
}

func (m *Metrics) ObserveRecommendation(found bool) {
	if m == nil {
		return
	}
	outcome := "none"
	if found {
		outcome = "found"
	}
	m.recommendation.Inc(outcome)
}
