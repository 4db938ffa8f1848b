package observability

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// family holds what every exposed metric shares: its name, help text, type
// and label names.
type family struct {
	name   string
	help   string
	kind   string
	labels []string
}

func (f family) header(w io.Writer) error {
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", f.name, f.help, f.name, f.kind)
	return err
}

func (f family) key(values []string) string {
	return labelString(f.labels, values)
}

type CounterVec struct {
	family
	mu     sync.RWMutex
	series map[string]float64
}

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{
		family: family{name: name, help: help, kind: "counter", labels: labels},
		series: make(map[string]float64),
	}
}

func (c *CounterVec) Inc(values ...string) { c.Add(1, values...) }

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil {
		return
	}
	k := c.key(values)
	c.mu.Lock()
	c.series[k] += v
	c.mu.Unlock()
}

func (c *CounterVec) Value(values ...string) float64 {
	if c == nil {
		return 0
	}
	k := c.key(values)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.series[k]
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	if err := c.header(w); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, k := range sortedKeys(c.series) {
		if _, err := fmt.Fprintf(w, "%s%s %f\n", c.name, k, c.series[k]); err != nil {
			return err
		}
	}
	return nil
}

type Gauge struct {
	family
	mu  sync.Mutex
	val float64
}

func NewGauge(name, help string) *Gauge {
	return &Gauge{family: family{name: name, help: help, kind: "gauge"}}
}

func (g *Gauge) Add(v float64) {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.val += v
	g.mu.Unlock()
}

func (g *Gauge) Value() float64 {
	if g == nil {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.val
}

func (g *Gauge) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	if err := g.header(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s %f\n", g.name, g.Value())
	return err
}

var defaultBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

type HistogramVec struct {
	family
	bounds []float64
	mu     sync.Mutex
	series map[string]*buckets
}

// buckets keeps cumulative counts; counts[i] is the number of observations
// <= bounds[i].
type buckets struct {
	counts []uint64
	sum    float64
	n      uint64
}

func NewHistogramVec(name, help string, labels []string, bounds []float64) *HistogramVec {
	if len(bounds) == 0 {
		bounds = defaultBuckets
	}
	sorted := append([]float64(nil), bounds...)
	sort.Float64s(sorted)
	return &HistogramVec{
		family: family{name: name, help: help, kind: "histogram", labels: labels},
		bounds: sorted,
		series: make(map[string]*buckets),
	}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil {
		return
	}
	k := h.key(values)
	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.series[k]
	if b == nil {
		b = &buckets{counts: make([]uint64, len(h.bounds))}
		h.series[k] = b
	}
	b.sum += v
	b.n++
	for i := sort.SearchFloat64s(h.bounds, v); i < len(h.bounds); i++ {
		b.counts[i]++
	}
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	if err := h.header(w); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	var sb strings.Builder
	for _, k := range sortedKeys(h.series) {
		b := h.series[k]
		for i, bound := range h.bounds {
			fmt.Fprintf(&sb, "%s_bucket%s %d\n", h.name, withLe(k, strconv.FormatFloat(bound, 'g', -1, 64)), b.counts[i])
		}
		fmt.Fprintf(&sb, "%s_bucket%s %d\n", h.name, withLe(k, "+Inf"), b.n)
		fmt.Fprintf(&sb, "%s_sum%s %f\n", h.name, k, b.sum)
		fmt.Fprintf(&sb, "%s_count%s %d\n", h.name, k, b.n)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// labelString renders {a="x",b="y"}; missing values become "unknown".
func labelString(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	pairs := make([]string, len(names))
	for i, name := range names {
		val := "unknown"
		if i < len(values) {
			val = values[i]
		}
		pairs[i] = name + `="` + labelEscaper.Replace(val) + `"`
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func withLe(labels, le string) string {
	pair := `le="` + labelEscaper.Replace(le) + `"`
	if labels == "" || labels == "{}" {
		return "{" + pair + "}"
	}
	return strings.TrimSuffix(labels, "}") + "," + pair + "}"
}
