package specifications

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/sitework-backend/internal/domain"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type SpecificationRepo interface {
	Create(dbc dbctx.Context, specs []*types.Specification) ([]*types.Specification, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Specification, error)
	ListByJob(dbc dbctx.Context, jobID uuid.UUID, activeOnly bool) ([]*types.Specification, error)
	FindForMatching(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*types.Specification, error)
	FindForCompliance(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*types.Specification, error)
	Update(dbc dbctx.Context, spec *types.Specification) error
	SetActive(dbc dbctx.Context, id uuid.UUID, active bool) error
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type specificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSpecificationRepo(db *gorm.DB, baseLog *logger.Logger) SpecificationRepo {
	repoLog := baseLog.With("repo", "SpecificationRepo")
	return &specificationRepo{db: db, log: repoLog}
}

func (r *specificationRepo) Create(dbc dbctx.Context, specs []*types.Specification) ([]*types.Specification, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(specs) == 0 {
		return []*types.Specification{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Omit("ProductType").Create(&specs).Error; err != nil {
		return nil, err
	}
	return specs, nil
}

func (r *specificationRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Specification, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Specification
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Preload("ProductType").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *specificationRepo) ListByJob(dbc dbctx.Context, jobID uuid.UUID, activeOnly bool) ([]*types.Specification, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(dbc.Ctx).
		Preload("ProductType").
		Where("job_id = ?", jobID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var results []*types.Specification
	if err := q.Order("priority DESC").Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FindForMatching: system equals systemID or the spec is system-wide (no
// system id and no system name), and independently the same for area.
func (r *specificationRepo) FindForMatching(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*types.Specification, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	systemClause, systemArgs := exactOrWide("system", systemID)
	areaClause, areaArgs := exactOrWide("area", areaID)

	var results []*types.Specification
	if err := transaction.WithContext(dbc.Ctx).
		Preload("ProductType").
		Where("job_id = ? AND is_active = ?", jobID, true).
		Where(systemClause, systemArgs...).
		Where(areaClause, areaArgs...).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FindForCompliance: system equals systemID or is null, and area equals
// areaID or is null. A nil id matches only null columns.
func (r *specificationRepo) FindForCompliance(dbc dbctx.Context, jobID uuid.UUID, systemID, areaID *uuid.UUID) ([]*types.Specification, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	systemClause, systemArgs := exactOrNull("system_id", systemID)
	areaClause, areaArgs := exactOrNull("area_id", areaID)

	var results []*types.Specification
	if err := transaction.WithContext(dbc.Ctx).
		Preload("ProductType").
		Where("job_id = ? AND is_active = ?", jobID, true).
		Where(systemClause, systemArgs...).
		Where(areaClause, areaArgs...).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *specificationRepo) Update(dbc dbctx.Context, spec *types.Specification) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if spec == nil || spec.ID == uuid.Nil {
		return fmt.Errorf("update specification: missing id")
	}
	return transaction.WithContext(dbc.Ctx).Omit("ProductType", "CreatedAt").Save(spec).Error
}

func (r *specificationRepo) SetActive(dbc dbctx.Context, id uuid.UUID, active bool) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Specification{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *specificationRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.Specification{}).Error
}

func exactOrWide(prefix string, id *uuid.UUID) (string, []interface{}) {
	wide := fmt.Sprintf("(%[1]s_id IS NULL AND (%[1]s_name IS NULL OR %[1]s_name = ''))", prefix)
	if id == nil {
		return wide, nil
	}
	return fmt.Sprintf("(%s_id = ? OR %s)", prefix, wide), []interface{}{*id}
}

func exactOrNull(column string, id *uuid.UUID) (string, []interface{}) {
	if id == nil {
		return column + " IS NULL", nil
	}
	return fmt.Sprintf("(%[1]s = ? OR %[1]s IS NULL)", column), []interface{}{*id}
}
