// Package units parses free-text dimension strings into decimal inches and
// compares the results.
//
// Parsing never fails loudly: anything that is not a recognizable
// dimension yields ok=false, and comparisons involving such values are false.
package units

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultTolerance absorbs repeating decimals such as 1/3".
const DefaultTolerance = 0.01

var (
	mixedRe    = regexp.MustCompile(`^(\d+)[\s-]+(\d+)\s*/\s*(\d+)$`)
	fractionRe = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
	decimalRe  = regexp.MustCompile(`^(\d*\.\d+)$`)
	integerRe  = regexp.MustCompile(`^(\d+)$`)
)

// inchLikeKeys are property names treated as dimensions when no registry
// entry exists for the key.
var inchLikeKeys = []string{"diameter", "size", "thickness", "width", "height", "length", "dimensions"}

// ParseInches converts a dimension to decimal inches.
//
// Numbers are returned unchanged. Strings may carry a trailing inch mark and
// are matched, in order, as a mixed number ("1 1/2", "1-1/2"), a fraction
// ("1/2"), a decimal ("2.5") or an integer ("2").
func ParseInches(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		return parseInchString(v)
	default:
		return 0, false
	}
}

func parseInchString(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimSuffix(s, `"`))
	if s == "" || s == "-" {
		return 0, false
	}
	if m := mixedRe.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		frac, ok := fraction(m[2], m[3])
		if !ok {
			return 0, false
		}
		return whole + frac, true
	}
	if m := fractionRe.FindStringSubmatch(s); m != nil {
		return fraction(m[1], m[2])
	}
	if m := decimalRe.FindStringSubmatch(s); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		return f, err == nil
	}
	if m := integerRe.FindStringSubmatch(s); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		return f, err == nil
	}
	return 0, false
}

func fraction(numStr, denStr string) (float64, bool) {
	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, false
	}
	den, err := strconv.ParseFloat(denStr, 64)
	if err != nil || den == 0 {
		return 0, false
	}
	return num / den, true
}

// CompareInches reports whether a and b parse to values closer than tolerance.
func CompareInches(a, b any, tolerance float64) bool {
	x, ok := ParseInches(a)
	if !ok {
		return false
	}
	y, ok := ParseInches(b)
	if !ok {
		return false
	}
	return math.Abs(x-y) < tolerance
}

// IsInRange checks min <= value <= max. A nil bound is omitted; a bound that
// is present but unparsable fails the check.
func IsInRange(value, min, max any) bool {
	v, ok := ParseInches(value)
	if !ok {
		return false
	}
	if min != nil {
		lo, ok := ParseInches(min)
		if !ok || v < lo {
			return false
		}
	}
	if max != nil {
		hi, ok := ParseInches(max)
		if !ok || v > hi {
			return false
		}
	}
	return true
}

// IsInchLikeKey reports whether key names, or is named by, a dimension.
func IsInchLikeKey(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return false
	}
	for _, dim := range inchLikeKeys {
		if strings.Contains(k, dim) || strings.Contains(dim, k) {
			return true
		}
	}
	return false
}

// NormalizePropertyValue parses dimension-like properties to inches and leaves
// everything else, including unparsable dimensions, unchanged.
func NormalizePropertyValue(key string, value any) any {
	if !IsInchLikeKey(key) {
		return value
	}
	if f, ok := ParseInches(value); ok {
		return f
	}
	return value
}

// ComparePropertyValues compares numerically when both sides normalize to
// numbers and falls back to case-insensitive string equality.
func ComparePropertyValues(key string, a, b any) bool {
	na := NormalizePropertyValue(key, a)
	nb := NormalizePropertyValue(key, b)
	if _, ok := na.(float64); ok {
		if _, ok := nb.(float64); ok {
			return CompareInches(na, nb, DefaultTolerance)
		}
	}
	return EqualFoldValues(a, b)
}

// EqualFoldValues compares the string forms of a and b ignoring case.
func EqualFoldValues(a, b any) bool {
	return strings.EqualFold(ToString(a), ToString(b))
}

// ToString renders a property value the way it would be displayed.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmtAny(v))
	}
}
