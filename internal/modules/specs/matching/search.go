package matching

import (
	"github.com/google/uuid"

	"github.com/yungbote/sitework-backend/internal/domain/catalog"
	"github.com/yungbote/sitework-backend/internal/domain/specs"
)

// SearchParams narrows a catalog search.
type SearchParams struct {
	Query                 string                       `json:"query,omitempty"`
	ProductTypeID         *uuid.UUID                   `json:"product_type_id,omitempty"`
	SupplierID            *uuid.UUID                   `json:"supplier_id,omitempty"`
	RequiredProperties    catalog.PropertyBag          `json:"required_properties,omitempty"`
	PropertyMatchingRules []specs.PropertyMatchingRule `json:"property_matching_rules,omitempty"`
}

// ApplySpecToProductSearch copies spec's constraints onto params. The
// product type always comes from spec; the supplier only when spec does not
// allow other suppliers. Nothing is queried.
func ApplySpecToProductSearch(spec *specs.Specification, params SearchParams) SearchParams {
	out := params
	if spec == nil {
		return out
	}
	if spec.ProductTypeID != nil {
		id := *spec.ProductTypeID
		out.ProductTypeID = &id
	}
	if spec.RestrictsSupplier() {
		id := *spec.PreferredSupplierID
		out.SupplierID = &id
	}
	if len(spec.RequiredProperties) > 0 {
		out.RequiredProperties = spec.RequiredProperties.Clone()
	}
	if len(spec.PropertyMatchingRules) > 0 {
		out.PropertyMatchingRules = append([]specs.PropertyMatchingRule(nil), spec.PropertyMatchingRules...)
	}
	return out
}
