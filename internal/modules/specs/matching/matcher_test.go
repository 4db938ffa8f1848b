package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/sitework-backend/internal/domain/catalog"
	"github.com/yungbote/sitework-backend/internal/domain/specs"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
)

type fakeSpecs struct {
	list []*specs.Specification
	err  error
}

func (f *fakeSpecs) FindForMatching(_ dbctx.Context, jobID uuid.UUID, _, _ *uuid.UUID) ([]*specs.Specification, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*specs.Specification
	for _, s := range f.list {
		if s.JobID == jobID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeProducts struct {
	list  []*catalog.Product
	query ProductQuery
}

func (f *fakeProducts) FindProducts(_ dbctx.Context, q ProductQuery) ([]*catalog.Product, error) {
	f.query = q
	return f.list, nil
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func newSpec(job uuid.UUID, name string, priority int) *specs.Specification {
	return &specs.Specification{
		ID:       uuid.New(),
		JobID:    job,
		Name:     name,
		Priority: priority,
		IsActive: true,
	}
}

func names(list []*specs.Specification) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Name
	}
	return out
}

func bg() dbctx.Context { return dbctx.FromContext(context.Background()) }

func TestFindMatchingSpecsRequiresJob(t *testing.T) {
	m := NewMatcher(&fakeSpecs{}, &fakeProducts{})
	_, err := m.FindMatchingSpecs(bg(), Context{})
	if !errors.Is(err, ErrInvalidContext) {
		t.Fatalf("expected ErrInvalidContext, got %v", err)
	}
}

func TestFindMatchingSpecsScopeWildcard(t *testing.T) {
	job := uuid.New()
	s1, s2 := uuid.New(), uuid.New()

	wide := newSpec(job, "wide", 0)
	scoped := newSpec(job, "scoped", 0)
	scoped.SystemID = ptr(s1)
	named := newSpec(job, "named", 0)
	named.SystemName = "Chilled Water"

	m := NewMatcher(&fakeSpecs{list: []*specs.Specification{wide, scoped, named}}, &fakeProducts{})

	got, err := m.FindMatchingSpecs(bg(), Context{JobID: job, SystemID: ptr(s2), AreaID: ptr(uuid.New())})
	if err != nil {
		t.Fatalf("FindMatchingSpecs: %v", err)
	}
	if len(got) != 1 || got[0] != wide {
		t.Fatalf("expected only wide spec, got %v", names(got))
	}

	got, err = m.FindMatchingSpecs(bg(), Context{JobID: job, SystemID: ptr(s1)})
	if err != nil {
		t.Fatalf("FindMatchingSpecs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected wide and scoped, got %v", names(got))
	}
}

func TestFindMatchingSpecsSkipsInactiveAndOtherJobs(t *testing.T) {
	job := uuid.New()
	off := newSpec(job, "off", 5)
	off.IsActive = false
	other := newSpec(uuid.New(), "other", 5)
	on := newSpec(job, "on", 0)

	m := NewMatcher(&fakeSpecs{list: []*specs.Specification{off, other, on}}, &fakeProducts{})
	got, err := m.FindMatchingSpecs(bg(), Context{JobID: job})
	if err != nil {
		t.Fatalf("FindMatchingSpecs: %v", err)
	}
	if len(got) != 1 || got[0] != on {
		t.Fatalf("got %v", names(got))
	}
}

func TestFindMatchingSpecsConditions(t *testing.T) {
	job := uuid.New()

	copper := newSpec(job, "copper", 0)
	copper.Conditions.PipeTypes = []string{"Copper", "PEX"}

	small := newSpec(job, "small", 0)
	small.Conditions.MaxDiameter = `2"`

	large := newSpec(job, "large", 0)
	large.Conditions.MinDiameter = "2-1/2"

	broken := newSpec(job, "broken", 0)
	broken.Conditions.MinDiameter = "n/a"

	lo, hi := 35.0, 60.0
	chilled := newSpec(job, "chilled", 0)
	chilled.Conditions.Temperature = &specs.TemperatureRange{Min: &lo, Max: &hi}

	all := []*specs.Specification{copper, small, large, broken, chilled}
	m := NewMatcher(&fakeSpecs{list: all}, &fakeProducts{})

	temp := 40.0
	hot := 180.0
	tests := []struct {
		name string
		ctx  Context
		want []string
	}{
		{"no context values", Context{JobID: job}, []string{"copper", "small", "large", "broken", "chilled"}},
		{"pipe type case-insensitive", Context{JobID: job, PipeType: "copper"}, []string{"copper", "small", "large", "broken", "chilled"}},
		{"pipe type excluded", Context{JobID: job, PipeType: "steel"}, []string{"small", "large", "broken", "chilled"}},
		{"small diameter", Context{JobID: job, Diameter: "1-1/2"}, []string{"copper", "small", "chilled"}},
		{"boundary inclusive", Context{JobID: job, Diameter: `2"`}, []string{"copper", "small", "chilled"}},
		{"large diameter", Context{JobID: job, Diameter: "3"}, []string{"copper", "large", "chilled"}},
		{"unparsable diameter", Context{JobID: job, Diameter: "huge"}, []string{"copper", "chilled"}},
		{"temperature inside", Context{JobID: job, Temperature: &temp}, []string{"copper", "small", "large", "broken", "chilled"}},
		{"temperature outside", Context{JobID: job, Temperature: &hot}, []string{"copper", "small", "large", "broken"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.FindMatchingSpecs(bg(), tt.ctx)
			if err != nil {
				t.Fatalf("FindMatchingSpecs: %v", err)
			}
			gotNames := names(got)
			if len(gotNames) != len(tt.want) {
				t.Fatalf("got %v, want %v", gotNames, tt.want)
			}
			for i := range gotNames {
				if gotNames[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", gotNames, tt.want)
				}
			}
		})
	}
}

func TestFindMatchingSpecsPriorityOrderIsStable(t *testing.T) {
	job := uuid.New()
	a := newSpec(job, "a", 1)
	b := newSpec(job, "b", 5)
	c := newSpec(job, "c", 1)
	d := newSpec(job, "d", 5)

	m := NewMatcher(&fakeSpecs{list: []*specs.Specification{a, b, c, d}}, &fakeProducts{})
	got, err := m.FindMatchingSpecs(bg(), Context{JobID: job})
	if err != nil {
		t.Fatalf("FindMatchingSpecs: %v", err)
	}
	want := []string{"b", "d", "a", "c"}
	for i, n := range names(got) {
		if n != want[i] {
			t.Fatalf("got %v, want %v", names(got), want)
		}
	}
}

func TestFindMatchingSpecsPropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMatcher(&fakeSpecs{err: boom}, &fakeProducts{})
	if _, err := m.FindMatchingSpecs(bg(), Context{JobID: uuid.New()}); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestRecommendProduct(t *testing.T) {
	job := uuid.New()
	pipeType := uuid.New()
	supplier := uuid.New()

	best := newSpec(job, "best", 10)
	best.ProductTypeID = ptr(pipeType)
	best.PreferredSupplierID = ptr(supplier)
	best.RequiredProperties = catalog.NewPropertyBag(map[string]any{"pipe_size": "2"})
	fallback := newSpec(job, "fallback", 1)

	miss := &catalog.Product{
		ID: uuid.New(), ProductTypeID: ptr(pipeType), IsActive: true,
		Variants: []catalog.ProductVariant{
			{ID: uuid.New(), IsActive: true, Properties: catalog.NewPropertyBag(map[string]any{"diameter": "1"})},
		},
	}
	second := catalog.ProductVariant{ID: uuid.New(), IsActive: true, Properties: catalog.NewPropertyBag(map[string]any{"diameter": `2"`})}
	hit := &catalog.Product{
		ID: uuid.New(), ProductTypeID: ptr(pipeType), IsActive: true,
		Variants: []catalog.ProductVariant{
			{ID: uuid.New(), IsActive: false, Properties: catalog.NewPropertyBag(map[string]any{"diameter": "2"})},
			second,
			{ID: uuid.New(), IsActive: true, Properties: catalog.NewPropertyBag(map[string]any{"pipeSize": "2.00"})},
		},
	}

	products := &fakeProducts{list: []*catalog.Product{miss, hit}}
	m := NewMatcher(&fakeSpecs{list: []*specs.Specification{fallback, best}}, products)

	rec, err := m.RecommendProduct(bg(), Context{JobID: job})
	if err != nil {
		t.Fatalf("RecommendProduct: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected a recommendation")
	}
	if rec.Specification != best || rec.Product != hit || rec.Variant.ID != second.ID {
		t.Fatalf("unexpected recommendation: spec=%s product=%s variant=%s", rec.Specification.Name, rec.Product.ID, rec.Variant.ID)
	}
	if products.query.ProductTypeID == nil || *products.query.ProductTypeID != pipeType {
		t.Fatalf("product type not applied to query: %+v", products.query)
	}
	if products.query.SupplierID == nil || *products.query.SupplierID != supplier {
		t.Fatalf("preferred supplier not applied to query: %+v", products.query)
	}
}

func TestRecommendProductNone(t *testing.T) {
	job := uuid.New()
	m := NewMatcher(&fakeSpecs{}, &fakeProducts{})
	rec, err := m.RecommendProduct(bg(), Context{JobID: job})
	if err != nil || rec != nil {
		t.Fatalf("expected nil recommendation, got %v, %v", rec, err)
	}

	spec := newSpec(job, "strict", 0)
	spec.RequiredProperties = catalog.NewPropertyBag(map[string]any{"material": "copper"})
	p := &catalog.Product{ID: uuid.New(), IsActive: true, Variants: []catalog.ProductVariant{
		{ID: uuid.New(), IsActive: true, Properties: catalog.NewPropertyBag(map[string]any{"material": "steel"})},
	}}
	products := &fakeProducts{list: []*catalog.Product{p}}
	m = NewMatcher(&fakeSpecs{list: []*specs.Specification{spec}}, products)
	rec, err = m.RecommendProduct(bg(), Context{JobID: job})
	if err != nil || rec != nil {
		t.Fatalf("expected nil recommendation, got %v, %v", rec, err)
	}
	if products.query.SupplierID != nil || products.query.ProductTypeID != nil {
		t.Fatalf("unexpected query restrictions: %+v", products.query)
	}
}
