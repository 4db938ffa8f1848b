package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/specifications/compliance", "200", 30*time.Millisecond)
	m.ObserveCompliance(false, "missing_property", "property_mismatch")
	m.ObserveCompliance(true)
	m.ObserveSpecMatches("match", 3)
	m.ObserveRecommendation(false)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`sw_api_requests_total{method="POST",route="/api/specifications/compliance",status="200"} 1.000000`,
		`sw_compliance_checks_total{verdict="allowed"} 1.000000`,
		`sw_compliance_checks_total{verdict="denied"} 1.000000`,
		`sw_compliance_violations_total{kind="missing_property"} 1.000000`,
		`sw_spec_matches_bucket{operation="match",le="5"} 1`,
		`sw_spec_matches_bucket{operation="match",le="2"} 0`,
		`sw_recommendations_total{outcome="none"} 1.000000`,
		"# TYPE sw_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Second)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveCompliance(true)
	m.ObserveSpecMatches("match", 1)
	m.ObserveRecommendation(true)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus on nil: %v", err)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"k"}, []string{"a\"b\\c\nd"})
	if got != `{k="a\"b\\c\nd"}` {
		t.Fatalf("labelString=%s", got)
	}
	if withLe("", "1") != `{le="1"}` {
		t.Fatalf("withLe empty")
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc ,bad, =x,team=specs")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "specs" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty input should yield nil")
	}
}

func TestClampRatio(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0.25: 0.25, 3: 1} {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v)=%v, want %v", in, got, want)
		}
	}
}

func TestGaugeAndHistogramBounds(t *testing.T) {
	g := NewGauge("g", "test gauge")
	g.Add(2)
	g.Add(-1)
	if g.Value() != 1 {
		t.Fatalf("gauge value=%v", g.Value())
	}

	h := NewHistogramVec("h", "test", nil, []float64{5, 1})
	h.Observe(1)
	var buf bytes.Buffer
	if err := h.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	for _, want := range []string{`h_bucket{le="1"} 1`, `h_bucket{le="5"} 1`, `h_count 1`} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q in:\n%s", want, buf.String())
		}
	}
}
