package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/clients/redis"
	"github.com/yungbote/sitework-backend/internal/data/repos"
	types "github.com/yungbote/sitework-backend/internal/domain"
	"github.com/yungbote/sitework-backend/internal/modules/specs/compliance"
	"github.com/yungbote/sitework-backend/internal/modules/specs/matching"
	"github.com/yungbote/sitework-backend/internal/modules/specs/properties"
	"github.com/yungbote/sitework-backend/internal/observability"
	"github.com/yungbote/sitework-backend/internal/platform/ctxutil"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

// SpecificationPatch holds the fields an update may change; nil leaves a
// field as is.
type SpecificationPatch struct {
	Name                  *string                       `json:"name"`
	Description           *string                       `json:"description"`
	SystemID              *uuid.UUID                    `json:"system_id"`
	SystemName            *string                       `json:"system_name"`
	AreaID                *uuid.UUID                    `json:"area_id"`
	AreaName              *string                       `json:"area_name"`
	Conditions            *types.Conditions             `json:"conditions"`
	ProductTypeID         *uuid.UUID                    `json:"product_type_id"`
	RequiredProperties    *types.PropertyBag            `json:"required_properties"`
	PropertyMatchingRules *[]types.PropertyMatchingRule `json:"property_matching_rules"`
	PreferredSupplierID   *uuid.UUID                    `json:"preferred_supplier_id"`
	AllowOtherSuppliers   *bool                         `json:"allow_other_suppliers"`
	Priority              *int                          `json:"priority"`
}

// ComplianceRequest names a product, or one of its variants, to check.
type ComplianceRequest struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Context   matching.Context
}

type SpecificationService interface {
	Create(dbc dbctx.Context, spec *types.Specification) (*types.Specification, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Specification, error)
	ListByJob(dbc dbctx.Context, jobID uuid.UUID, activeOnly bool) ([]*types.Specification, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch SpecificationPatch) (*types.Specification, error)
	SetActive(dbc dbctx.Context, id uuid.UUID, active bool) (*types.Specification, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error

	FindMatching(dbc dbctx.Context, mc matching.Context) ([]*types.Specification, error)
	Recommend(dbc dbctx.Context, mc matching.Context) (*matching.Recommendation, error)
	CheckCompliance(dbc dbctx.Context, req ComplianceRequest) (*compliance.Result, error)
	NormalizeProperties(props map[string]any) types.PropertyBag
}

type specificationService struct {
	db       *gorm.DB
	log      *logger.Logger
	specRepo repos.SpecificationRepo
	products repos.ProductRepo
	cache    redis.SpecCache
	matcher  *matching.Matcher
	checker  *compliance.Checker
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

func NewSpecificationService(
	db *gorm.DB,
	log *logger.Logger,
	specRepo repos.SpecificationRepo,
	productRepo repos.ProductRepo,
	cache redis.SpecCache,
	checker *compliance.Checker,
	metrics *observability.Metrics,
) SpecificationService {
	serviceLog := log.With("service", "SpecificationService")
	return &specificationService{
		db:       db,
		log:      serviceLog,
		specRepo: specRepo,
		products: productRepo,
		cache:    cache,
		matcher:  matching.NewMatcher(cache, productRepo),
		checker:  checker,
		metrics:  metrics,
		tracer:   observability.Tracer("sitework/services/specification"),
	}
}

func (s *specificationService) Create(dbc dbctx.Context, spec *types.Specification) (*types.Specification, error) {
	if spec == nil {
		return nil, invalid("invalid_specification", errors.New("specification required"))
	}
	if err := validateSpecification(spec); err != nil {
		return nil, err
	}
	spec.ID = uuid.Nil
	spec.ProductType = nil

	created, err := s.specRepo.Create(dbc, []*types.Specification{spec})
	if err != nil {
		return nil, fmt.Errorf("create specification: %w", err)
	}
	s.invalidate(dbc, spec.JobID)
	s.log.Info("Specification created", "specification_id", created[0].ID, "job_id", spec.JobID)
	return created[0], nil
}

func (s *specificationService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Specification, error) {
	rows, err := s.specRepo.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("get specification: %w", err)
	}
	if len(rows) == 0 {
		return nil, notFound("specification_not_found")
	}
	return rows[0], nil
}

func (s *specificationService) ListByJob(dbc dbctx.Context, jobID uuid.UUID, activeOnly bool) ([]*types.Specification, error) {
	if jobID == uuid.Nil {
		return nil, invalid("invalid_context", matching.ErrInvalidContext)
	}
	rows, err := s.specRepo.ListByJob(dbc, jobID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list specifications: %w", err)
	}
	return rows, nil
}

func (s *specificationService) Update(dbc dbctx.Context, id uuid.UUID, patch SpecificationPatch) (*types.Specification, error) {
	var updated *types.Specification
	err := dbc.DB(s.db).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Context(), Tx: tx}
		spec, err := s.Get(inner, id)
		if err != nil {
			return err
		}
		patch.apply(spec)
		if err := validateSpecification(spec); err != nil {
			return err
		}
		spec.ProductType = nil
		if err := s.specRepo.Update(inner, spec); err != nil {
			return fmt.Errorf("update specification: %w", err)
		}
		updated, err = s.Get(inner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(dbc, updated.JobID)
	return updated, nil
}

func (s *specificationService) SetActive(dbc dbctx.Context, id uuid.UUID, active bool) (*types.Specification, error) {
	spec, err := s.Get(dbc, id)
	if err != nil {
		return nil, err
	}
	if err := s.specRepo.SetActive(dbc, id, active); err != nil {
		return nil, fmt.Errorf("set specification active: %w", err)
	}
	spec.IsActive = active
	s.invalidate(dbc, spec.JobID)
	s.log.Info("Specification activation changed", "specification_id", id, "active", active)
	return spec, nil
}

func (s *specificationService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	spec, err := s.Get(dbc, id)
	if err != nil {
		return err
	}
	if err := s.specRepo.FullDeleteByIDs(dbc, []uuid.UUID{id}); err != nil {
		return fmt.Errorf("delete specification: %w", err)
	}
	s.invalidate(dbc, spec.JobID)
	s.log.Info("Specification deleted", "specification_id", id, "job_id", spec.JobID)
	return nil
}

func (s *specificationService) FindMatching(dbc dbctx.Context, mc matching.Context) ([]*types.Specification, error) {
	ctx, span := s.tracer.Start(dbc.Context(), "SpecificationService.FindMatching")
	defer span.End()
	span.SetAttributes(attribute.String("job_id", mc.JobID.String()))

	out, err := s.matcher.FindMatchingSpecs(dbctx.Context{Ctx: ctx, Tx: dbc.Tx}, mc)
	if err != nil {
		return nil, s.engineError(span, err)
	}
	s.metrics.ObserveSpecMatches("match", len(out))
	s.log.Debug("Matched specifications", "job_id", mc.JobID, "count", len(out))
	return out, nil
}

func (s *specificationService) Recommend(dbc dbctx.Context, mc matching.Context) (*matching.Recommendation, error) {
	ctx, span := s.tracer.Start(dbc.Context(), "SpecificationService.Recommend")
	defer span.End()
	span.SetAttributes(attribute.String("job_id", mc.JobID.String()))

	rec, err := s.matcher.RecommendProduct(dbctx.Context{Ctx: ctx, Tx: dbc.Tx}, mc)
	if err != nil {
		return nil, s.engineError(span, err)
	}
	s.metrics.ObserveRecommendation(rec != nil)
	if rec == nil {
		s.log.Debug("No product satisfies the best specification", "job_id", mc.JobID)
		return nil, nil
	}
	s.log.Debug("Recommended product",
		"job_id", mc.JobID,
		"specification_id", rec.Specification.ID,
		"product_id", rec.Product.ID,
		"variant_id", rec.Variant.ID,
	)
	return rec, nil
}

func (s *specificationService) CheckCompliance(dbc dbctx.Context, req ComplianceRequest) (*compliance.Result, error) {
	ctx, span := s.tracer.Start(dbc.Context(), "SpecificationService.CheckCompliance")
	defer span.End()
	span.SetAttributes(
		attribute.String("job_id", req.Context.JobID.String()),
		attribute.String("product_id", req.ProductID.String()),
	)
	inner := dbctx.Context{Ctx: ctx, Tx: dbc.Tx}

	item, err := s.loadItem(inner, req)
	if err != nil {
		return nil, err
	}
	res, err := s.checker.Check(inner, item, req.Context)
	if err != nil {
		return nil, s.engineError(span, err)
	}

	kinds := make([]string, 0, len(res.Violations))
	for _, v := range res.Violations {
		kinds = append(kinds, v.Kind)
	}
	s.metrics.ObserveCompliance(res.Allowed, kinds...)
	span.SetAttributes(attribute.Bool("allowed", res.Allowed), attribute.Int("violations", len(res.Violations)))
	s.log.Debug("Compliance checked",
		"request_id", ctxutil.RequestID(ctx),
		"job_id", req.Context.JobID,
		"product_id", req.ProductID,
		"allowed", res.Allowed,
		"matching", len(res.MatchingSpecifications),
		"violations", len(res.Violations),
	)
	return res, nil
}

func (s *specificationService) NormalizeProperties(props map[string]any) types.PropertyBag {
	return properties.NormalizeMap(props)
}

func (s *specificationService) loadItem(dbc dbctx.Context, req ComplianceRequest) (compliance.Item, error) {
	if req.VariantID != nil {
		variants, err := s.products.GetVariantsByIDs(dbc, []uuid.UUID{*req.VariantID})
		if err != nil {
			return nil, fmt.Errorf("load variant: %w", err)
		}
		if len(variants) == 0 || (req.ProductID != uuid.Nil && variants[0].ProductID != req.ProductID) {
			return nil, notFound("variant_not_found")
		}
		return variants[0], nil
	}
	products, err := s.products.GetByIDs(dbc, []uuid.UUID{req.ProductID})
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if len(products) == 0 {
		return nil, notFound("product_not_found")
	}
	return products[0], nil
}

func (s *specificationService) engineError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if errors.Is(err, matching.ErrInvalidContext) {
		return invalid("invalid_context", err)
	}
	return fmt.Errorf("specification engine: %w", err)
}

func (s *specificationService) invalidate(dbc dbctx.Context, jobID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(dbc.Context(), jobID); err != nil {
		s.log.Warn("Spec cache invalidation failed", "job_id", jobID, "error", err)
	}
}

func (p SpecificationPatch) apply(spec *types.Specification) {
	if p.Name != nil {
		spec.Name = *p.Name
	}
	if p.Description != nil {
		spec.Description = *p.Description
	}
	if p.SystemID != nil {
		spec.SystemID = p.SystemID
	}
	if p.SystemName != nil {
		spec.SystemName = *p.SystemName
	}
	if p.AreaID != nil {
		spec.AreaID = p.AreaID
	}
	if p.AreaName != nil {
		spec.AreaName = *p.AreaName
	}
	if p.Conditions != nil {
		spec.Conditions = *p.Conditions
	}
	if p.ProductTypeID != nil {
		spec.ProductTypeID = p.ProductTypeID
	}
	if p.RequiredProperties != nil {
		spec.RequiredProperties = *p.RequiredProperties
	}
	if p.PropertyMatchingRules != nil {
		spec.PropertyMatchingRules = *p.PropertyMatchingRules
	}
	if p.PreferredSupplierID != nil {
		spec.PreferredSupplierID = p.PreferredSupplierID
	}
	if p.AllowOtherSuppliers != nil {
		spec.AllowOtherSuppliers = *p.AllowOtherSuppliers
	}
	if p.Priority != nil {
		spec.Priority = *p.Priority
	}
}

func validateSpecification(spec *types.Specification) error {
	if spec.JobID == uuid.Nil {
		return invalid("invalid_specification", errors.New("job_id is required"))
	}
	if strings.TrimSpace(spec.Name) == "" {
		return invalid("invalid_specification", errors.New("name is required"))
	}
	for _, r := range spec.PropertyMatchingRules {
		if strings.TrimSpace(r.PropertyKey) == "" {
			return invalid("invalid_specification", errors.New("matching rule property_key is required"))
		}
		if !r.MatchType.Valid() {
			return invalid("invalid_specification", fmt.Errorf("unknown match_type %q", r.MatchType))
		}
	}
	return nil
}
