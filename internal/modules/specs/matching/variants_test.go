package matching

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/sitework-backend/internal/domain/catalog"
	"github.com/yungbote/sitework-backend/internal/domain/specs"
)

func TestPropertySatisfies(t *testing.T) {
	rule := func(mt specs.MatchType, v any, normalize bool) *specs.PropertyMatchingRule {
		return &specs.PropertyMatchingRule{MatchType: mt, Value: v, Normalize: normalize}
	}
	tests := []struct {
		name     string
		key      string
		actual   any
		required any
		rule     *specs.PropertyMatchingRule
		want     bool
	}{
		{"registry compare without rule", "pipe_diameter", `1-1/2"`, "1.5", nil, true},
		{"registry compare mismatch", "pipe_diameter", "1", "1.5", nil, false},
		{"unknown key falls back to text", "jacket", "White", "white", nil, true},
		{"exact normalized numeric", "pipe_diameter", "3/4", "0.75", rule(specs.MatchExact, nil, true), true},
		{"exact within tolerance", "pipe_diameter", 1.005, "1", rule(specs.MatchExact, nil, true), true},
		{"exact outside tolerance", "pipe_diameter", 1.02, "1", rule(specs.MatchExact, nil, true), false},
		{"exact normalized text", "material", "COPPER", "copper", rule(specs.MatchExact, nil, true), true},
		{"rule value wins over required", "material", "steel", "copper", rule(specs.MatchExact, "Steel", true), true},
		{"max passes", "insulation_thickness", "1", nil, rule(specs.MatchMax, "1-1/2", true), true},
		{"max fails", "insulation_thickness", "2", nil, rule(specs.MatchMax, "1-1/2", true), false},
		{"max ignores non-numeric", "material", "copper", nil, rule(specs.MatchMax, "steel", true), true},
		{"min passes", "insulation_thickness", "2", nil, rule(specs.MatchMin, "1", true), true},
		{"min fails", "insulation_thickness", "1/2", nil, rule(specs.MatchMin, "1", true), false},
		{"range inside", "pipe_diameter", `2"`, nil, rule(specs.MatchRange, map[string]any{"min": "1", "max": "3"}, true), true},
		{"range outside", "pipe_diameter", "4", nil, rule(specs.MatchRange, map[string]any{"min": "1", "max": "3"}, true), false},
		{"range open max", "pipe_diameter", "40", nil, rule(specs.MatchRange, map[string]any{"min": "1"}, true), true},
		{"range unparsable value", "pipe_diameter", "big", nil, rule(specs.MatchRange, map[string]any{"min": "1"}, true), false},
		{"no normalize is raw text", "pipe_diameter", "0.75", "3/4", rule(specs.MatchExact, nil, false), false},
		{"no normalize ignores case", "material", "Copper", nil, rule(specs.MatchRange, "COPPER", false), true},
		{"enum member", "material", "PVC", nil, rule(specs.MatchEnum, []any{"copper", "pvc"}, true), true},
		{"enum non-member", "material", "steel", nil, rule(specs.MatchEnum, []any{"copper", "pvc"}, true), false},
		{"contains", "facing", "FSK Foil", nil, rule(specs.MatchContains, "fsk", true), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PropertySatisfies(tt.key, tt.actual, tt.required, tt.rule); got != tt.want {
				t.Fatalf("PropertySatisfies(%q, %v, %v)=%v, want %v", tt.key, tt.actual, tt.required, got, tt.want)
			}
		})
	}
}

func TestFindVariantsMatchingSpecProductTypeGate(t *testing.T) {
	pt := uuid.New()
	spec := &specs.Specification{ProductTypeID: ptr(pt)}
	variant := catalog.ProductVariant{ID: uuid.New(), IsActive: true}

	other := &catalog.Product{ProductTypeID: ptr(uuid.New()), Variants: []catalog.ProductVariant{variant}}
	if got := FindVariantsMatchingSpec(other, spec); len(got) != 0 {
		t.Fatalf("expected no variants for product type mismatch, got %d", len(got))
	}
	untyped := &catalog.Product{Variants: []catalog.ProductVariant{variant}}
	if got := FindVariantsMatchingSpec(untyped, spec); len(got) != 0 {
		t.Fatalf("expected no variants for untyped product, got %d", len(got))
	}
	same := &catalog.Product{ProductTypeID: ptr(pt), Variants: []catalog.ProductVariant{variant}}
	if got := FindVariantsMatchingSpec(same, spec); len(got) != 1 {
		t.Fatalf("expected the variant, got %d", len(got))
	}
}

func TestFindVariantsMatchingSpecRequiresAllProperties(t *testing.T) {
	spec := &specs.Specification{
		RequiredProperties: catalog.PropertyBag{
			{Key: "pipeSize", Value: "1"},
			{Key: "jacket", Value: "ASJ"},
		},
		PropertyMatchingRules: []specs.PropertyMatchingRule{
			{PropertyKey: "pipe_size", MatchType: specs.MatchMin, Value: "1", Normalize: true},
		},
	}
	bag := func(kv ...any) catalog.PropertyBag {
		var b catalog.PropertyBag
		for i := 0; i < len(kv); i += 2 {
			b.Set(kv[i].(string), kv[i+1])
		}
		return b
	}
	p := &catalog.Product{Variants: []catalog.ProductVariant{
		{ID: uuid.New(), IsActive: true, Properties: bag("diameter", "2", "jacket", "asj")},
		{ID: uuid.New(), IsActive: true, Properties: bag("diameter", "1/2", "jacket", "asj")},
		{ID: uuid.New(), IsActive: true, Properties: bag("diameter", "2")},
		{ID: uuid.New(), IsActive: true, Properties: bag("diameter", "2", "jacket", "  ")},
	}}

	got := FindVariantsMatchingSpec(p, spec)
	if len(got) != 1 || got[0].ID != p.Variants[0].ID {
		t.Fatalf("expected only the first variant, got %d", len(got))
	}
}

func TestCheckRequiredPropertiesUsesOriginalKeyFallback(t *testing.T) {
	spec := &specs.Specification{
		RequiredProperties: catalog.PropertyBag{{Key: "Jacket", Value: "ASJ"}},
	}
	checks := CheckRequiredProperties(catalog.PropertyBag{{Key: "Jacket", Value: "asj"}}, spec)
	if len(checks) != 1 || checks[0].Missing || !checks[0].Passed {
		t.Fatalf("unexpected checks: %+v", checks)
	}
}

func TestApplySpecToProductSearch(t *testing.T) {
	pt, sup := uuid.New(), uuid.New()
	spec := &specs.Specification{
		ProductTypeID:       ptr(pt),
		PreferredSupplierID: ptr(sup),
		RequiredProperties:  catalog.PropertyBag{{Key: "material", Value: "copper"}},
		PropertyMatchingRules: []specs.PropertyMatchingRule{
			{PropertyKey: "material", MatchType: specs.MatchExact, Normalize: true},
		},
	}
	in := SearchParams{Query: "elbow"}

	out := ApplySpecToProductSearch(spec, in)
	if out.Query != "elbow" {
		t.Fatalf("query lost: %+v", out)
	}
	if out.ProductTypeID == nil || *out.ProductTypeID != pt {
		t.Fatalf("product type not merged: %+v", out)
	}
	if out.SupplierID == nil || *out.SupplierID != sup {
		t.Fatalf("supplier not merged: %+v", out)
	}
	if out.RequiredProperties.Len() != 1 || len(out.PropertyMatchingRules) != 1 {
		t.Fatalf("requirements not copied: %+v", out)
	}
	if in.ProductTypeID != nil || in.SupplierID != nil {
		t.Fatalf("input mutated: %+v", in)
	}

	spec.AllowOtherSuppliers = true
	out = ApplySpecToProductSearch(spec, SearchParams{})
	if out.SupplierID != nil {
		t.Fatalf("supplier should not be restricted when others are allowed")
	}
}
