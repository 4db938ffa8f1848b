package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/sitework-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Catalog
		// =========================
		&types.ProductType{},
		&types.Product{},
		&types.ProductVariant{},
		&types.VariantSupplierPrice{},

		// =========================
		// Specifications
		// =========================
		&types.Specification{},
		&types.SpecificationTemplate{},
	)
}
