// Package properties resolves property key spellings to canonical keys and
// normalizes or compares values according to the canonical registry.
//
// The registry is embedded (registry.yaml), loaded once at init and read-only
// afterwards, so every function here is safe for concurrent use.
//
// The alias "thickness" is claimed by both insulation_thickness and
// wall_thickness. Entries are consulted in registry order, so it resolves to
// insulation_thickness.
package properties

import (
	"github.com/yungbote/sitework-backend/internal/domain/catalog"
	"github.com/yungbote/sitework-backend/internal/modules/specs/units"
)

// CanonicalKey resolves key case-insensitively against canonical keys and
// their aliases. Unknown keys are returned unchanged.
func CanonicalKey(key string) string {
	if m, ok := reg.byAlias[fold(key)]; ok {
		return m.Key
	}
	return key
}

// Lookup returns the registry entry for key after canonicalization.
func Lookup(key string) (*Mapping, bool) {
	m, ok := reg.byKey[CanonicalKey(key)]
	return m, ok
}

// Registered lists the registry entries in lookup order.
func Registered() []*Mapping {
	out := make([]*Mapping, len(reg.ordered))
	copy(out, reg.ordered)
	return out
}

// Normalize applies the registry normalizer for key, or the generic
// dimension heuristic for unregistered keys.
func Normalize(key string, value any) any {
	if m, ok := Lookup(key); ok {
		return m.Normalize(value)
	}
	return units.NormalizePropertyValue(key, value)
}

// Compare applies the registry comparison for key. Unregistered keys compare
// as case-insensitive text.
func Compare(key string, a, b any) bool {
	if m, ok := Lookup(key); ok {
		return m.Compare(a, b)
	}
	return units.EqualFoldValues(a, b)
}

// NormalizeBag canonicalizes every key and normalizes every value. When two
// input keys share a canonical key the later value wins and keeps the first
// one's position.
func NormalizeBag(bag catalog.PropertyBag) catalog.PropertyBag {
	out := make(catalog.PropertyBag, 0, len(bag))
	for _, p := range bag {
		out.Set(CanonicalKey(p.Key), Normalize(p.Key, p.Value))
	}
	return out
}

// NormalizeMap is NormalizeBag for callers holding a plain map.
func NormalizeMap(m map[string]any) catalog.PropertyBag {
	return NormalizeBag(catalog.NewPropertyBag(m))
}
