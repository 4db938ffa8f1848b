package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/sitework-backend/internal/domain"
	"github.com/yungbote/sitework-backend/internal/domain/catalog"
)

func SeedProductType(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.ProductType {
	tb.Helper()
	pt := &types.ProductType{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(pt).Error; err != nil {
		tb.Fatalf("seed product type: %v", err)
	}
	return pt
}

// SeedProduct creates an active product with one active variant per props entry.
func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, productTypeID *uuid.UUID, name string, props ...map[string]any) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:            uuid.New(),
		ProductTypeID: productTypeID,
		Name:          name,
		Properties:    types.PropertyBag{},
		Attributes:    datatypes.JSON([]byte("{}")),
		IsActive:      true,
	}
	for i, m := range props {
		p.Variants = append(p.Variants, types.ProductVariant{
			ID:         uuid.New(),
			SKU:        name + "-" + string(rune('A'+i)),
			Name:       name,
			Properties: catalog.NewPropertyBag(m),
			IsActive:   true,
		})
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedVariantPrice(tb testing.TB, ctx context.Context, tx *gorm.DB, variantID, supplierID uuid.UUID, price float64) *types.VariantSupplierPrice {
	tb.Helper()
	vp := &types.VariantSupplierPrice{
		ID:         uuid.New(),
		VariantID:  variantID,
		SupplierID: supplierID,
		Price:      price,
		Currency:   "USD",
		Metadata:   datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(vp).Error; err != nil {
		tb.Fatalf("seed variant price: %v", err)
	}
	return vp
}

// SeedSpecification creates an active, unscoped specification; mutate adjusts
// it before insert.
func SeedSpecification(tb testing.TB, ctx context.Context, tx *gorm.DB, jobID uuid.UUID, name string, mutate func(*types.Specification)) *types.Specification {
	tb.Helper()
	s := &types.Specification{
		ID:                 uuid.New(),
		JobID:              jobID,
		Name:               name,
		RequiredProperties: types.PropertyBag{},
		IsActive:           true,
	}
	if mutate != nil {
		mutate(s)
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed specification: %v", err)
	}
	return s
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
