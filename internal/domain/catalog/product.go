package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductType struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"not null;column:name" json:"name"`
	Category  string         `gorm:"column:category" json:"category,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProductType) TableName() string { return "product_type" }

func (pt *ProductType) BeforeCreate(*gorm.DB) error {
	if pt.ID == uuid.Nil {
		pt.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string           `gorm:"not null;column:name" json:"name"`
	Description    string           `gorm:"column:description" json:"description,omitempty"`
	ProductTypeID  *uuid.UUID       `gorm:"type:uuid;column:product_type_id;index" json:"product_type_id,omitempty"`
	ProductType    *ProductType     `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	ManufacturerID *uuid.UUID       `gorm:"type:uuid;column:manufacturer_id;index" json:"manufacturer_id,omitempty"`
	SupplierID     *uuid.UUID       `gorm:"type:uuid;column:supplier_id;index" json:"supplier_id,omitempty"`
	Properties     PropertyBag      `gorm:"type:jsonb;column:properties" json:"properties"`
	Attributes     datatypes.JSON   `gorm:"type:jsonb;column:attributes" json:"attributes,omitempty"`
	IsActive       bool             `gorm:"not null;column:is_active;index" json:"is_active"`
	Variants       []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	CreatedAt      time.Time        `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "product" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductTypeRef is the product's own catalog type.
func (p *Product) ProductTypeRef() *uuid.UUID { return p.ProductTypeID }

func (p *Product) PropertyBag() PropertyBag { return p.Properties }

type ProductVariant struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID      uuid.UUID              `gorm:"type:uuid;not null;column:product_id;index" json:"product_id"`
	Product        *Product               `gorm:"foreignKey:ProductID" json:"-"`
	SKU            string                 `gorm:"column:sku;index" json:"sku"`
	Name           string                 `gorm:"column:name" json:"name"`
	Properties     PropertyBag            `gorm:"type:jsonb;column:properties" json:"properties"`
	IsActive       bool                   `gorm:"not null;column:is_active" json:"is_active"`
	SupplierPrices []VariantSupplierPrice `gorm:"foreignKey:VariantID" json:"supplier_prices,omitempty"`
	CreatedAt      time.Time              `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time              `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt         `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProductVariant) TableName() string { return "product_variant" }

func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// ProductTypeRef resolves through the parent product. A variant whose parent
// was not loaded has no product type.
func (v *ProductVariant) ProductTypeRef() *uuid.UUID {
	if v.Product == nil {
		return nil
	}
	return v.Product.ProductTypeID
}

func (v *ProductVariant) PropertyBag() PropertyBag { return v.Properties }

// VariantSupplierPrice is a supplier-specific price entry for a variant.
type VariantSupplierPrice struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	VariantID  uuid.UUID      `gorm:"type:uuid;not null;column:variant_id;index" json:"variant_id"`
	SupplierID uuid.UUID      `gorm:"type:uuid;not null;column:supplier_id;index" json:"supplier_id"`
	Price      float64        `gorm:"column:price" json:"price"`
	Currency   string         `gorm:"column:currency" json:"currency,omitempty"`
	Metadata   datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (VariantSupplierPrice) TableName() string { return "product_variant_price" }

func (p *VariantSupplierPrice) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
