package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/clients/redis"
	"github.com/yungbote/sitework-backend/internal/data/repos"
	types "github.com/yungbote/sitework-backend/internal/domain"
	"github.com/yungbote/sitework-backend/internal/modules/specs/templates"
	"github.com/yungbote/sitework-backend/internal/platform/apierr"
	"github.com/yungbote/sitework-backend/internal/platform/ctxutil"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type SpecificationTemplateService interface {
	Create(dbc dbctx.Context, tpl *types.SpecificationTemplate) (*types.SpecificationTemplate, error)
	List(dbc dbctx.Context) ([]*types.SpecificationTemplate, error)
	Instantiate(dbc dbctx.Context, templateID uuid.UUID, req templates.Request) ([]*types.Specification, error)
}

type specificationTemplateService struct {
	db           *gorm.DB
	log          *logger.Logger
	templateRepo repos.SpecificationTemplateRepo
	specRepo     repos.SpecificationRepo
	cache        redis.SpecCache
}

func NewSpecificationTemplateService(
	db *gorm.DB,
	log *logger.Logger,
	templateRepo repos.SpecificationTemplateRepo,
	specRepo repos.SpecificationRepo,
	cache redis.SpecCache,
) SpecificationTemplateService {
	serviceLog := log.With("service", "SpecificationTemplateService")
	return &specificationTemplateService{
		db:           db,
		log:          serviceLog,
		templateRepo: templateRepo,
		specRepo:     specRepo,
		cache:        cache,
	}
}

// Create stores a template owned by the caller's company. Callers without a
// company create global templates.
func (s *specificationTemplateService) Create(dbc dbctx.Context, tpl *types.SpecificationTemplate) (*types.SpecificationTemplate, error) {
	if err := templates.Validate(tpl); err != nil {
		return nil, invalid("invalid_template", err)
	}
	for _, r := range tpl.PropertyMatchingRules {
		if !r.MatchType.Valid() {
			return nil, invalid("invalid_template", fmt.Errorf("unknown match_type %q", r.MatchType))
		}
	}
	tpl.ID = uuid.Nil
	tpl.CompanyID = companyOf(dbc)
	tpl.UsageCount = 0
	tpl.IsActive = true

	created, err := s.templateRepo.Create(dbc, tpl)
	if errors.Is(err, repos.ErrDuplicateTemplate) {
		return nil, apierr.Conflict("duplicate_template", err)
	}
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	s.log.Info("Specification template created", "template_id", created.ID, "company_id", created.CompanyID)
	return created, nil
}

func (s *specificationTemplateService) List(dbc dbctx.Context) ([]*types.SpecificationTemplate, error) {
	rows, err := s.templateRepo.ListForCompany(dbc, companyOf(dbc))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return rows, nil
}

func (s *specificationTemplateService) Instantiate(dbc dbctx.Context, templateID uuid.UUID, req templates.Request) ([]*types.Specification, error) {
	var created []*types.Specification
	err := dbc.DB(s.db).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Context(), Tx: tx}
		rows, err := s.templateRepo.GetByIDs(inner, []uuid.UUID{templateID})
		if err != nil {
			return fmt.Errorf("load template: %w", err)
		}
		if len(rows) == 0 || !visibleTo(rows[0], companyOf(dbc)) {
			return notFound("template_not_found")
		}
		tpl := rows[0]

		built, err := templates.Instantiate(tpl, req)
		if err != nil {
			return invalid("invalid_instantiation", err)
		}
		if created, err = s.specRepo.Create(inner, built); err != nil {
			return fmt.Errorf("create specifications: %w", err)
		}
		if err := s.templateRepo.IncrementUsage(inner, tpl.ID, 1); err != nil {
			return fmt.Errorf("increment template usage: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(dbc.Context(), req.JobID); err != nil {
			s.log.Warn("Spec cache invalidation failed", "job_id", req.JobID, "error", err)
		}
	}
	s.log.Info("Template instantiated",
		"template_id", templateID,
		"job_id", req.JobID,
		"specifications", len(created),
	)
	return created, nil
}

func companyOf(dbc dbctx.Context) *uuid.UUID {
	rd := ctxutil.GetRequestData(dbc.Context())
	if rd == nil || rd.CompanyID == nil || *rd.CompanyID == uuid.Nil {
		return nil
	}
	id := *rd.CompanyID
	return &id
}

func visibleTo(tpl *types.SpecificationTemplate, companyID *uuid.UUID) bool {
	if tpl.CompanyID == nil {
		return true
	}
	return companyID != nil && *tpl.CompanyID == *companyID
}
