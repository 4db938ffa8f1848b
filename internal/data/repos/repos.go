package repos

import (
	"github.com/yungbote/sitework-backend/internal/data/repos/products"
	"github.com/yungbote/sitework-backend/internal/data/repos/specifications"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type SpecificationRepo = specifications.SpecificationRepo
type SpecificationTemplateRepo = specifications.SpecificationTemplateRepo

type ProductRepo = products.ProductRepo

var ErrDuplicateTemplate = specifications.ErrDuplicateTemplate

func NewSpecificationRepo(db *gorm.DB, baseLog *logger.Logger) SpecificationRepo {
	return specifications.NewSpecificationRepo(db, baseLog)
}
func NewSpecificationTemplateRepo(db *gorm.DB, baseLog *logger.Logger) SpecificationTemplateRepo {
	return specifications.NewSpecificationTemplateRepo(db, baseLog)
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return products.NewProductRepo(db, baseLog)
}
