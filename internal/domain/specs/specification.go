package specs

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sitework-backend/internal/domain/catalog"
)

// Specification is a job-scoped product selection rule, optionally narrowed to
// one system and/or one area.
type Specification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JobID       uuid.UUID  `gorm:"type:uuid;not null;column:job_id;index" json:"job_id"`
	SystemID    *uuid.UUID `gorm:"type:uuid;column:system_id;index" json:"system_id,omitempty"`
	SystemName  string     `gorm:"column:system_name" json:"system_name,omitempty"`
	AreaID      *uuid.UUID `gorm:"type:uuid;column:area_id;index" json:"area_id,omitempty"`
	AreaName    string     `gorm:"column:area_name" json:"area_name,omitempty"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description,omitempty"`

	Conditions Conditions `gorm:"type:jsonb;serializer:json;column:conditions" json:"conditions"`

	ProductTypeID         *uuid.UUID             `gorm:"type:uuid;column:product_type_id" json:"product_type_id,omitempty"`
	ProductType           *catalog.ProductType   `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	RequiredProperties    catalog.PropertyBag    `gorm:"type:jsonb;column:required_properties" json:"required_properties"`
	PropertyMatchingRules []PropertyMatchingRule `gorm:"type:jsonb;serializer:json;column:property_matching_rules" json:"property_matching_rules"`

	PreferredSupplierID *uuid.UUID `gorm:"type:uuid;column:preferred_supplier_id" json:"preferred_supplier_id,omitempty"`
	AllowOtherSuppliers bool       `gorm:"not null;column:allow_other_suppliers" json:"allow_other_suppliers"`

	Priority   int        `gorm:"not null;column:priority;index" json:"priority"`
	TemplateID *uuid.UUID `gorm:"type:uuid;column:template_id;index" json:"template_id,omitempty"`
	IsActive   bool       `gorm:"not null;column:is_active;index" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Specification) TableName() string { return "specification" }

func (s *Specification) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SystemWide is true when neither a system reference nor a system name is set.
func (s *Specification) SystemWide() bool {
	return s.SystemID == nil && strings.TrimSpace(s.SystemName) == ""
}

// AreaWide is true when neither an area reference nor an area name is set.
func (s *Specification) AreaWide() bool {
	return s.AreaID == nil && strings.TrimSpace(s.AreaName) == ""
}

// RestrictsSupplier is true when only the preferred supplier may be used.
func (s *Specification) RestrictsSupplier() bool {
	return s.PreferredSupplierID != nil && !s.AllowOtherSuppliers
}

// ProductTypeLabel names the required product type for messages.
func (s *Specification) ProductTypeLabel() string {
	if s.ProductType != nil && s.ProductType.Name != "" {
		return s.ProductType.Name
	}
	if s.ProductTypeID != nil {
		return s.ProductTypeID.String()
	}
	return ""
}
