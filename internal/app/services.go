package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/modules/specs/compliance"
	"github.com/yungbote/sitework-backend/internal/observability"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
	"github.com/yungbote/sitework-backend/internal/services"
)

type Services struct {
	Specification         services.SpecificationService
	SpecificationTemplate services.SpecificationTemplateService
	Catalog               services.CatalogService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	checker := compliance.NewChecker(clients.SpecCache, cfg.Concurrency)
	return Services{
		Specification: services.NewSpecificationService(
			db,
			log,
			reposet.Specification,
			reposet.Product,
			clients.SpecCache,
			checker,
			metrics,
		),
		SpecificationTemplate: services.NewSpecificationTemplateService(
			db,
			log,
			reposet.SpecificationTemplate,
			reposet.Specification,
			clients.SpecCache,
		),
		Catalog: services.NewCatalogService(log, reposet.Product, checker),
	}
}
