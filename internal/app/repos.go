package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/data/repos"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type Repos struct {
	Specification         repos.SpecificationRepo
	SpecificationTemplate repos.SpecificationTemplateRepo
	Product               repos.ProductRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Specification:         repos.NewSpecificationRepo(db, log),
		SpecificationTemplate: repos.NewSpecificationTemplateRepo(db, log),
		Product:               repos.NewProductRepo(db, log),
	}
}
