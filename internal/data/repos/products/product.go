package products

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/sitework-backend/internal/domain"
	"github.com/yungbote/sitework-backend/internal/modules/specs/matching"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

type ProductRepo interface {
	Create(dbc dbctx.Context, products []*types.Product) ([]*types.Product, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Product, error)
	GetVariantsByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ProductVariant, error)
	FindProducts(dbc dbctx.Context, q matching.ProductQuery) ([]*types.Product, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{db: db, log: repoLog}
}

func (r *productRepo) Create(dbc dbctx.Context, products []*types.Product) ([]*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(products) == 0 {
		return []*types.Product{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("ProductType").Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Product
	if len(ids) == 0 {
		return results, nil
	}
	if err := withCatalog(transaction.WithContext(dbc.Ctx)).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	linkVariants(results)
	return results, nil
}

// GetVariantsByIDs loads variants with their parent product so the product
// type resolves.
func (r *productRepo) GetVariantsByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ProductVariant, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProductVariant
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Product").
		Preload("SupplierPrices").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FindProducts returns active products in insertion order. A supplier
// restriction matches the manufacturer, the product supplier or any supplier
// pricing one of its variants.
func (r *productRepo) FindProducts(dbc dbctx.Context, q matching.ProductQuery) ([]*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	query := withCatalog(transaction.WithContext(dbc.Ctx)).Where("is_active = ?", true)
	if q.ProductTypeID != nil {
		query = query.Where("product_type_id = ?", *q.ProductTypeID)
	}
	if q.SupplierID != nil {
		variantSuppliers := r.db.
			Table("product_variant").
			Select("product_variant.product_id").
			Joins("JOIN product_variant_price ON product_variant_price.variant_id = product_variant.id").
			Where("product_variant_price.supplier_id = ? AND product_variant.deleted_at IS NULL", *q.SupplierID)
		query = query.Where(
			"manufacturer_id = ? OR supplier_id = ? OR id IN (?)",
			*q.SupplierID, *q.SupplierID, variantSuppliers,
		)
	}

	var results []*types.Product
	if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	linkVariants(results)
	return results, nil
}

func withCatalog(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("ProductType").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("sku ASC") }).
		Preload("Variants.SupplierPrices")
}

func linkVariants(products []*types.Product) {
	for _, p := range products {
		for i := range p.Variants {
			p.Variants[i].Product = p
		}
	}
}
