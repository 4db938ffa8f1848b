package specifications

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/yungbote/sitework-backend/internal/domain"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

// ErrDuplicateTemplate is returned when a company already has a template with
// the same name.
var ErrDuplicateTemplate = errors.New("specification template already exists")

type SpecificationTemplateRepo interface {
	Create(dbc dbctx.Context, tpl *types.SpecificationTemplate) (*types.SpecificationTemplate, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.SpecificationTemplate, error)
	ListForCompany(dbc dbctx.Context, companyID *uuid.UUID) ([]*types.SpecificationTemplate, error)
	IncrementUsage(dbc dbctx.Context, id uuid.UUID, by int) error
}

type specificationTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSpecificationTemplateRepo(db *gorm.DB, baseLog *logger.Logger) SpecificationTemplateRepo {
	repoLog := baseLog.With("repo", "SpecificationTemplateRepo")
	return &specificationTemplateRepo{db: db, log: repoLog}
}

func (r *specificationTemplateRepo) Create(dbc dbctx.Context, tpl *types.SpecificationTemplate) (*types.SpecificationTemplate, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(dbc.Ctx).Create(tpl).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTemplate
		}
		return nil, err
	}
	return tpl, nil
}

func (r *specificationTemplateRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.SpecificationTemplate, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SpecificationTemplate
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListForCompany returns the company's active templates plus the global
// ones. A nil company sees only global templates.
func (r *specificationTemplateRepo) ListForCompany(dbc dbctx.Context, companyID *uuid.UUID) ([]*types.SpecificationTemplate, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(dbc.Ctx).Where("is_active = ?", true)
	if companyID != nil {
		q = q.Where("(company_id = ? OR company_id IS NULL)", *companyID)
	} else {
		q = q.Where("company_id IS NULL")
	}

	var results []*types.SpecificationTemplate
	if err := q.Order("usage_count DESC").Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *specificationTemplateRepo) IncrementUsage(dbc dbctx.Context, id uuid.UUID, by int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.SpecificationTemplate{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", by)).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
