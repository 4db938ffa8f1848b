// Package matching finds the specifications that apply to a usage context,
// ranks them by priority, and matches catalog variants against a chosen
// specification's property requirements.
package matching

import (
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/sitework-backend/internal/domain/catalog"
	"github.com/yungbote/sitework-backend/internal/domain/specs"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
)

// SpecSource lists active specifications of a job whose system is the given
// one or system-wide and whose area is the given one or area-wide.
type SpecSource interface {
	FindForMatching(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*specs.Specification, error)
}

// ProductQuery selects active products. SupplierID, when set, matches the
// manufacturer, the product supplier or any variant supplier.
type ProductQuery struct {
	ProductTypeID *uuid.UUID
	SupplierID    *uuid.UUID
}

type ProductSource interface {
	FindProducts(dbc dbctx.Context, q ProductQuery) ([]*catalog.Product, error)
}

type Matcher struct {
	specs    SpecSource
	products ProductSource
}

func NewMatcher(specSource SpecSource, productSource ProductSource) *Matcher {
	return &Matcher{specs: specSource, products: productSource}
}

// FindMatchingSpecs returns the specifications applicable to c, highest
// priority first. Equal priorities keep the source order.
func (m *Matcher) FindMatchingSpecs(dbc dbctx.Context, c Context) ([]*specs.Specification, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	candidates, err := m.specs.FindForMatching(dbc, c.JobID, c.SystemID, c.AreaID)
	if err != nil {
		return nil, err
	}
	out := make([]*specs.Specification, 0, len(candidates))
	for _, spec := range candidates {
		if spec == nil || !spec.IsActive || spec.JobID != c.JobID {
			continue
		}
		if !InMatchingScope(spec, c.SystemID, c.AreaID) {
			continue
		}
		if !ConditionsAllow(spec, c) {
			continue
		}
		out = append(out, spec)
	}
	SortByPriority(out)
	return out, nil
}

// SortByPriority orders specifications by descending priority, stably.
func SortByPriority(list []*specs.Specification) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority > list[j].Priority
	})
}

// Recommendation is the first catalog product and variant satisfying the
// best specification for a context.
type Recommendation struct {
	Product       *catalog.Product        `json:"product"`
	Variant       *catalog.ProductVariant `json:"variant"`
	Specification *specs.Specification    `json:"specification"`
}

// RecommendProduct returns nil, without error, when no specification applies
// or no product satisfies the best one.
func (m *Matcher) RecommendProduct(dbc dbctx.Context, c Context) (*Recommendation, error) {
	matches, err := m.FindMatchingSpecs(dbc, c)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	best := matches[0]

	q := ProductQuery{ProductTypeID: best.ProductTypeID}
	if best.RestrictsSupplier() {
		q.SupplierID = best.PreferredSupplierID
	}
	products, err := m.products.FindProducts(dbc, q)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p == nil || !p.IsActive {
			continue
		}
		variants := FindVariantsMatchingSpec(p, best)
		if len(variants) > 0 {
			return &Recommendation{Product: p, Variant: variants[0], Specification: best}, nil
		}
	}
	return nil, nil
}
