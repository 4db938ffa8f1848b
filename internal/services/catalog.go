package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/sitework-backend/internal/data/repos"
	types "github.com/yungbote/sitework-backend/internal/domain"
	"github.com/yungbote/sitework-backend/internal/modules/specs/compliance"
	"github.com/yungbote/sitework-backend/internal/modules/specs/matching"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type FilterRequest struct {
	ProductTypeID *uuid.UUID
	Context       matching.Context
	// VariantLevel filters each product's variants instead of the products.
	VariantLevel bool
}

type CompliantProduct struct {
	Product  *types.Product          `json:"product"`
	Variants []*types.ProductVariant `json:"variants,omitempty"`
}

type CatalogService interface {
	Filter(dbc dbctx.Context, req FilterRequest) ([]CompliantProduct, error)
}

type catalogService struct {
	log      *logger.Logger
	products repos.ProductRepo
	checker  *compliance.Checker
}

func NewCatalogService(log *logger.Logger, productRepo repos.ProductRepo, checker *compliance.Checker) CatalogService {
	return &catalogService{
		log:      log.With("service", "CatalogService"),
		products: productRepo,
		checker:  checker,
	}
}

func (s *catalogService) Filter(dbc dbctx.Context, req FilterRequest) ([]CompliantProduct, error) {
	products, err := s.products.FindProducts(dbc, matching.ProductQuery{ProductTypeID: req.ProductTypeID})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	out := []CompliantProduct{}
	if !req.VariantLevel {
		kept, err := compliance.FilterBySpecifications(dbc, s.checker, products, req.Context)
		if err != nil {
			return nil, s.filterError(err)
		}
		for _, p := range kept {
			out = append(out, CompliantProduct{Product: p})
		}
		s.log.Debug("Catalog filtered", "job_id", req.Context.JobID, "candidates", len(products), "kept", len(out))
		return out, nil
	}

	for _, p := range products {
		variants := make([]*types.ProductVariant, 0, len(p.Variants))
		for i := range p.Variants {
			if p.Variants[i].IsActive {
				variants = append(variants, &p.Variants[i])
			}
		}
		kept, err := compliance.FilterBySpecifications(dbc, s.checker, variants, req.Context)
		if err != nil {
			return nil, s.filterError(err)
		}
		if len(kept) > 0 {
			out = append(out, CompliantProduct{Product: p, Variants: kept})
		}
	}
	s.log.Debug("Catalog variants filtered", "job_id", req.Context.JobID, "candidates", len(products), "kept", len(out))
	return out, nil
}

func (s *catalogService) filterError(err error) error {
	return fmt.Errorf("filter catalog: %w", err)
}
