package matching

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/sitework-backend/internal/domain/catalog"
	"github.com/yungbote/sitework-backend/internal/domain/specs"
	"github.com/yungbote/sitework-backend/internal/modules/specs/properties"
	"github.com/yungbote/sitework-backend/internal/modules/specs/units"
)

// PropertyCheck is the outcome of checking one required property.
type PropertyCheck struct {
	Key     string
	Missing bool
	Rule    *specs.PropertyMatchingRule
	// Target is what the item's value was compared against.
	Target any
	Passed bool
}

// FindVariantsMatchingSpec returns the active variants of product that satisfy
// every required property of spec. A product-type mismatch excludes all of
// them regardless of their properties.
func FindVariantsMatchingSpec(product *catalog.Product, spec *specs.Specification) []*catalog.ProductVariant {
	out := []*catalog.ProductVariant{}
	if product == nil || spec == nil || !ProductTypeMatches(spec, product.ProductTypeID) {
		return out
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		if !v.IsActive {
			continue
		}
		if SatisfiesAll(CheckRequiredProperties(v.Properties, spec)) {
			out = append(out, v)
		}
	}
	return out
}

// ProductTypeMatches is true when spec has no product type or it equals ref.
func ProductTypeMatches(spec *specs.Specification, ref *uuid.UUID) bool {
	if spec.ProductTypeID == nil {
		return true
	}
	return ref != nil && *ref == *spec.ProductTypeID
}

func SatisfiesAll(checks []PropertyCheck) bool {
	for _, c := range checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// CheckRequiredProperties evaluates each of spec's required properties against
// bag, in the order they are declared.
func CheckRequiredProperties(bag catalog.PropertyBag, spec *specs.Specification) []PropertyCheck {
	if len(spec.RequiredProperties) == 0 {
		return nil
	}
	index := canonicalIndex(bag)
	checks := make([]PropertyCheck, 0, len(spec.RequiredProperties))
	for _, req := range spec.RequiredProperties {
		key := properties.CanonicalKey(req.Key)
		check := PropertyCheck{Key: key, Rule: RuleFor(spec, key), Target: req.Value}
		if check.Rule != nil && check.Rule.Value != nil {
			check.Target = check.Rule.Value
		}

		actual, ok := index[key]
		if !ok {
			actual, ok = bag.Get(req.Key)
		}
		if !ok || isBlank(actual) {
			check.Missing = true
			checks = append(checks, check)
			continue
		}
		check.Passed = PropertySatisfies(key, actual, req.Value, check.Rule)
		checks = append(checks, check)
	}
	return checks
}

// RuleFor returns the first matching rule whose key canonicalizes to key.
func RuleFor(spec *specs.Specification, key string) *specs.PropertyMatchingRule {
	for i := range spec.PropertyMatchingRules {
		r := &spec.PropertyMatchingRules[i]
		if properties.CanonicalKey(r.PropertyKey) == key {
			return r
		}
	}
	return nil
}

// PropertySatisfies decides whether actual meets required under rule.
// Without a rule the registry comparison for key is used.
func PropertySatisfies(key string, actual, required any, rule *specs.PropertyMatchingRule) bool {
	if rule == nil {
		return properties.Compare(key, actual, required)
	}
	target := required
	if rule.Value != nil {
		target = rule.Value
	}
	if !rule.Normalize {
		return units.EqualFoldValues(actual, target)
	}

	switch rule.MatchType {
	case specs.MatchRange:
		lo, hi := bounds(target)
		return units.IsInRange(actual, lo, hi)
	case specs.MatchMin:
		a, b, ok := numericPair(key, actual, target)
		return !ok || a >= b
	case specs.MatchMax:
		a, b, ok := numericPair(key, actual, target)
		return !ok || a <= b
	case specs.MatchEnum:
		options, ok := target.([]any)
		if !ok {
			return normalizedEqual(key, actual, target)
		}
		for _, opt := range options {
			if normalizedEqual(key, actual, opt) {
				return true
			}
		}
		return false
	case specs.MatchContains:
		return strings.Contains(
			strings.ToLower(units.ToString(actual)),
			strings.ToLower(units.ToString(target)),
		)
	default:
		return normalizedEqual(key, actual, target)
	}
}

func normalizedEqual(key string, a, b any) bool {
	na := properties.Normalize(key, a)
	nb := properties.Normalize(key, b)
	x, okA := na.(float64)
	y, okB := nb.(float64)
	if okA && okB {
		return math.Abs(x-y) < units.DefaultTolerance
	}
	return units.EqualFoldValues(na, nb)
}

func numericPair(key string, a, b any) (float64, float64, bool) {
	x, okA := properties.Normalize(key, a).(float64)
	y, okB := properties.Normalize(key, b).(float64)
	return x, y, okA && okB
}

func bounds(v any) (any, any) {
	return specs.PropertyMatchingRule{Value: v}.Bounds()
}

// canonicalIndex maps canonical keys to raw values; a later spelling of the
// same canonical key wins.
func canonicalIndex(bag catalog.PropertyBag) map[string]any {
	out := make(map[string]any, len(bag))
	for _, p := range bag {
		out[properties.CanonicalKey(p.Key)] = p.Value
	}
	return out
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}
