package domain

import (
	"github.com/yungbote/sitework-backend/internal/domain/catalog"
	"github.com/yungbote/sitework-backend/internal/domain/specs"
)

type ProductType = catalog.ProductType
type Product = catalog.Product
type ProductVariant = catalog.ProductVariant
type VariantSupplierPrice = catalog.VariantSupplierPrice
type Property = catalog.Property
type PropertyBag = catalog.PropertyBag

type Specification = specs.Specification
type SpecificationTemplate = specs.SpecificationTemplate
type Conditions = specs.Conditions
type TemperatureRange = specs.TemperatureRange
type PropertyMatchingRule = specs.PropertyMatchingRule
type MatchType = specs.MatchType

const (
	MatchExact    = specs.MatchExact
	MatchRange    = specs.MatchRange
	MatchMin      = specs.MatchMin
	MatchMax      = specs.MatchMax
	MatchEnum     = specs.MatchEnum
	MatchContains = specs.MatchContains
)
