package properties

import (
	_ "embed"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/sitework-backend/internal/modules/specs/units"
)

//go:embed registry.yaml
var registryYAML []byte

type Category string

const (
	CategoryDimension     Category = "dimension"
	CategoryMaterial      Category = "material"
	CategorySpecification Category = "specification"
)

type DataType string

const (
	DataTypeFraction DataType = "fraction"
	DataTypeNumber   DataType = "number"
	DataTypeEnum     DataType = "enum"
	DataTypeGauge    DataType = "gauge"
)

// Mapping is one canonical property: its accepted spellings and how its
// values are normalized and compared.
type Mapping struct {
	Key      string
	Aliases  []string
	Category Category
	DataType DataType
	Unit     string

	normalize func(any) any
	compare   func(a, b any) bool
}

func (m *Mapping) Normalize(v any) any { return m.normalize(v) }

func (m *Mapping) Compare(a, b any) bool { return m.compare(a, b) }

type yamlRegistry struct {
	Version    int           `yaml:"version"`
	Properties []yamlMapping `yaml:"properties"`
}

type yamlMapping struct {
	Key      string   `yaml:"key"`
	Aliases  []string `yaml:"aliases"`
	Category string   `yaml:"category"`
	DataType string   `yaml:"data_type"`
	Unit     string   `yaml:"unit"`
}

// registry is built once at init and never mutated.
type registry struct {
	ordered []*Mapping
	byKey   map[string]*Mapping
	// byAlias maps a folded alias or key to its canonical entry; the first
	// registered entry keeps a shared alias.
	byAlias map[string]*Mapping
}

var reg = mustLoadRegistry(registryYAML)

// fold builds a fresh Caser per call; Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func mustLoadRegistry(raw []byte) *registry {
	r, err := loadRegistry(raw)
	if err != nil {
		panic(fmt.Sprintf("properties: invalid embedded registry: %v", err))
	}
	return r
}

func loadRegistry(raw []byte) (*registry, error) {
	var doc yamlRegistry
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	r := &registry{
		byKey:   map[string]*Mapping{},
		byAlias: map[string]*Mapping{},
	}
	for i, ym := range doc.Properties {
		key := strings.TrimSpace(ym.Key)
		if key == "" {
			return nil, fmt.Errorf("property %d: empty key", i)
		}
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("property %q registered twice", key)
		}
		m := &Mapping{
			Key:      key,
			Aliases:  append([]string(nil), ym.Aliases...),
			Category: Category(ym.Category),
			DataType: DataType(ym.DataType),
			Unit:     ym.Unit,
		}
		if err := bindBehavior(m); err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		r.ordered = append(r.ordered, m)
		r.byKey[key] = m
	}
	// Canonical keys take precedence over any alias spelling.
	for _, m := range r.ordered {
		r.byAlias[fold(m.Key)] = m
	}
	for _, m := range r.ordered {
		for _, a := range m.Aliases {
			f := fold(a)
			if _, taken := r.byAlias[f]; !taken {
				r.byAlias[f] = m
			}
		}
	}
	return r, nil
}

func bindBehavior(m *Mapping) error {
	switch m.DataType {
	case DataTypeFraction, DataTypeNumber:
		m.normalize = normalizeInches
		m.compare = func(a, b any) bool { return units.CompareInches(a, b, units.DefaultTolerance) }
	case DataTypeEnum:
		m.normalize = normalizeLower
		m.compare = units.EqualFoldValues
	case DataTypeGauge:
		m.normalize = normalizeGauge
		m.compare = compareGauge
	default:
		return fmt.Errorf("unknown data type %q", m.DataType)
	}
	return nil
}

func normalizeInches(v any) any {
	if f, ok := units.ParseInches(v); ok {
		return f
	}
	return v
}

func normalizeLower(v any) any {
	if v == nil {
		return nil
	}
	return strings.ToLower(units.ToString(v))
}

// parseFloatPrefix mirrors a lenient float parse: the longest numeric prefix
// of the string counts ("22 ga" -> 22).
func parseFloatPrefix(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		for end := len(s); end > 0; end-- {
			if f, err := strconv.ParseFloat(s[:end], 64); err == nil && !math.IsNaN(f) {
				return f, true
			}
		}
	}
	return 0, false
}

func normalizeGauge(v any) any {
	if f, ok := parseFloatPrefix(v); ok {
		return f
	}
	return v
}

func compareGauge(a, b any) bool {
	x, okA := parseFloatPrefix(a)
	y, okB := parseFloatPrefix(b)
	if okA && okB {
		return x == y
	}
	return units.EqualFoldValues(a, b)
}
