package specs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/domain/catalog"
)

// SpecificationTemplate is a reusable blueprint for specifications.
// A nil CompanyID marks a template shared by every company.
type SpecificationTemplate struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID   *uuid.UUID `gorm:"type:uuid;column:company_id;uniqueIndex:idx_template_company_name" json:"company_id,omitempty"`
	Name        string     `gorm:"not null;column:name;uniqueIndex:idx_template_company_name" json:"name"`
	Description string     `gorm:"column:description" json:"description,omitempty"`

	Conditions            Conditions             `gorm:"type:jsonb;serializer:json;column:conditions" json:"conditions"`
	ProductTypeID         *uuid.UUID             `gorm:"type:uuid;column:product_type_id" json:"product_type_id,omitempty"`
	RequiredProperties    catalog.PropertyBag    `gorm:"type:jsonb;column:required_properties" json:"required_properties"`
	PropertyMatchingRules []PropertyMatchingRule `gorm:"type:jsonb;serializer:json;column:property_matching_rules" json:"property_matching_rules"`
	PreferredSupplierID   *uuid.UUID             `gorm:"type:uuid;column:preferred_supplier_id" json:"preferred_supplier_id,omitempty"`
	AllowOtherSuppliers   bool                   `gorm:"not null;column:allow_other_suppliers" json:"allow_other_suppliers"`
	Priority              int                    `gorm:"not null;column:priority" json:"priority"`

	UsageCount int  `gorm:"not null;column:usage_count" json:"usage_count"`
	IsActive   bool `gorm:"not null;column:is_active;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SpecificationTemplate) TableName() string { return "specification_template" }

func (t *SpecificationTemplate) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
