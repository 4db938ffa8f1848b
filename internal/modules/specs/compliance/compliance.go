// Package compliance decides whether a concrete product or variant may be
// used in a job context, given every active specification that applies.
package compliance

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/sitework-backend/internal/domain/catalog"
	"github.com/yungbote/sitework-backend/internal/domain/specs"
	"github.com/yungbote/sitework-backend/internal/modules/specs/matching"
	"github.com/yungbote/sitework-backend/internal/modules/specs/units"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
)

const DefaultConcurrency = 8

// SpecSource lists active specifications of a job whose system is the given
// one or unset, and whose area is the given one or unset. A nil system or
// area selects only specifications without one.
type SpecSource interface {
	FindForCompliance(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*specs.Specification, error)
}

// Item is a product or a variant.
type Item interface {
	ProductTypeRef() *uuid.UUID
	PropertyBag() catalog.PropertyBag
}

// Violation kinds.
const (
	KindProductType      = "product_type"
	KindMissingProperty  = "missing_property"
	KindPropertyMismatch = "property_mismatch"
)

type Violation struct {
	SpecificationID   uuid.UUID `json:"specification_id"`
	SpecificationName string    `json:"specification_name"`
	Kind              string    `json:"kind"`
	Reason            string    `json:"reason"`
	// Reasons holds every failed check of the specification, Reason first.
	Reasons []string `json:"reasons"`
}

type Result struct {
	Allowed                bool                   `json:"allowed"`
	MatchingSpecifications []*specs.Specification `json:"matching_specifications"`
	Violations             []Violation            `json:"violations"`
}

func allowed() *Result {
	return &Result{
		Allowed:                true,
		MatchingSpecifications: []*specs.Specification{},
		Violations:             []Violation{},
	}
}

type Checker struct {
	specs       SpecSource
	concurrency int
}

func NewChecker(source SpecSource, concurrency int) *Checker {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Checker{specs: source, concurrency: concurrency}
}

// Check evaluates item against the specifications applicable to c. Without a
// job nothing is restricted.
func (ch *Checker) Check(dbc dbctx.Context, item Item, c matching.Context) (*Result, error) {
	if !c.HasJob() {
		return allowed(), nil
	}
	candidates, err := ch.specs.FindForCompliance(dbc, c.JobID, c.SystemID, c.AreaID)
	if err != nil {
		return nil, err
	}
	return Evaluate(item, candidates, c), nil
}

// Evaluate applies already fetched candidates to item.
func Evaluate(item Item, candidates []*specs.Specification, c matching.Context) *Result {
	res := allowed()
	if len(candidates) == 0 {
		return res
	}

	var collected []Violation
	for _, spec := range candidates {
		if spec == nil || !applies(spec, c) {
			continue
		}
		found := violationsFor(item, spec)
		if len(found) == 0 {
			res.MatchingSpecifications = append(res.MatchingSpecifications, spec)
			continue
		}
		collected = append(collected, found...)
	}

	res.Violations = dedupe(collected)
	res.Allowed = len(res.MatchingSpecifications) > 0 || len(res.Violations) == 0
	return res
}

func applies(spec *specs.Specification, c matching.Context) bool {
	if c.SystemID != nil && spec.SystemID != nil && *c.SystemID != *spec.SystemID {
		return false
	}
	if c.AreaID != nil && spec.AreaID != nil && *c.AreaID != *spec.AreaID {
		return false
	}
	return matching.ConditionsAllow(spec, c)
}

func violationsFor(item Item, spec *specs.Specification) []Violation {
	if !matching.ProductTypeMatches(spec, item.ProductTypeRef()) {
		return []Violation{newViolation(spec, KindProductType, "Product type mismatch. Specification requires: "+spec.ProductTypeLabel())}
	}

	var out []Violation
	for _, check := range matching.CheckRequiredProperties(item.PropertyBag(), spec) {
		switch {
		case check.Missing:
			out = append(out, newViolation(spec, KindMissingProperty, "Missing required property: "+check.Key))
		case !check.Passed:
			out = append(out, newViolation(spec, KindPropertyMismatch, fmt.Sprintf(
				"Property %s does not match specification requirement: %s",
				check.Key, units.ToString(check.Target),
			)))
		}
	}
	return out
}

func newViolation(spec *specs.Specification, kind, reason string) Violation {
	return Violation{
		SpecificationID:   spec.ID,
		SpecificationName: spec.Name,
		Kind:              kind,
		Reason:            reason,
		Reasons:           []string{reason},
	}
}

// dedupe keeps one entry per specification, first occurrence order.
func dedupe(in []Violation) []Violation {
	out := make([]Violation, 0, len(in))
	pos := make(map[uuid.UUID]int, len(in))
	for _, v := range in {
		if i, ok := pos[v.SpecificationID]; ok {
			out[i].Reasons = append(out[i].Reasons, v.Reasons...)
			continue
		}
		pos[v.SpecificationID] = len(out)
		out = append(out, v)
	}
	return out
}

// FilterBySpecifications keeps the items of list that Check allows, in their
// original order. Items are checked concurrently.
func FilterBySpecifications[T Item](dbc dbctx.Context, ch *Checker, list []T, c matching.Context) ([]T, error) {
	if !c.HasJob() {
		return list, nil
	}

	keep := make([]bool, len(list))
	g, gctx := errgroup.WithContext(dbc.Context())
	g.SetLimit(ch.concurrency)
	for i := range list {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := ch.Check(dbctx.Context{Ctx: gctx, Tx: dbc.Tx}, list[i], c)
			if err != nil {
				return err
			}
			keep[i] = res.Allowed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(list))
	for i, item := range list {
		if keep[i] {
			out = append(out, item)
		}
	}
	return out, nil
}
