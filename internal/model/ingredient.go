package model

import (
	"github.com/google/uuid"
)

// IngredientUnit is the unit of measurement an ingredient is purchased in.
type IngredientUnit string

const (
	UnitGram       IngredientUnit = "gram"
	UnitKilogram   IngredientUnit = "kilogram"
	UnitMilliliter IngredientUnit = "milliliter"
	UnitLiter      IngredientUnit = "liter"
	UnitUnit       IngredientUnit = "unit" // eggs, items, etc.
)

// IngredientCategory groups ingredients for filtering and reports.
type IngredientCategory string

const (
	CategoryFlour         IngredientCategory = "flour"
	CategorySugar         IngredientCategory = "sugar"
	CategoryDairy         IngredientCategory = "dairy"
	CategoryEggs          IngredientCategory = "eggs"
	CategoryFats          IngredientCategory = "fats"
	CategoryLeavening     IngredientCategory = "leavening"
	CategoryFlavoring     IngredientCategory = "flavoring"
	CategoryNuts          IngredientCategory = "nuts"
	CategoryFruits        IngredientCategory = "fruits"
	CategoryChocolate     IngredientCategory = "chocolate"
	CategorySpices        IngredientCategory = "spices"
	CategoryPreservatives IngredientCategory = "preservatives"
	CategoryOther         IngredientCategory = "other"
)

// Ingredient is a purchasable inventory item tracked against a minimum
// stock threshold. CurrentPrice is the price paid for MeasurementValue of
// Unit (e.g. R$ 5.50 for 1 kilogram).
type Ingredient struct {
	BaseModel
	Name             string             `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Description      string             `gorm:"type:text" json:"description,omitempty"`
	Brand            string             `gorm:"type:varchar(100)" json:"brand,omitempty"`
	Unit             IngredientUnit     `gorm:"type:varchar(20);not null" json:"unit" validate:"required,oneof=gram kilogram milliliter liter unit"`
	MeasurementValue float64            `gorm:"not null;default:1" json:"measurement_value" validate:"gt=0"`
	CurrentPrice     float64            `gorm:"not null;default:0" json:"current_price" validate:"gte=0"`
	CurrentStock     float64            `gorm:"not null;default:0" json:"current_stock" validate:"gte=0"`
	MinStock         float64            `gorm:"not null;default:0" json:"min_stock" validate:"gte=0"`
	Category         IngredientCategory `gorm:"type:varchar(30);not null;default:'other'" json:"category"`
	Allergens        []string           `gorm:"type:jsonb;serializer:json" json:"allergens"`
	IsActive         bool               `gorm:"default:true" json:"is_active"`

	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// StockStatus classifies an ingredient's stock level against its minimum.
type StockStatus string

const (
	StockOut      StockStatus = "out"
	StockCritical StockStatus = "critical"
	StockLow      StockStatus = "low"
	StockGood     StockStatus = "good"
)

// ResolveStockStatus classifies (currentStock, minStock) into the 4-state
// enum used by cards, alerts and dashboard stats.
//
//	out:      currentStock <= 0
//	critical: 0 < currentStock <= 0.5 * minStock
//	low:      0.5 * minStock < currentStock <= minStock
//	good:     otherwise
func ResolveStockStatus(currentStock, minStock float64) StockStatus {
	if currentStock <= 0 {
		return StockOut
	}
	if currentStock <= 0.5*minStock {
		return StockCritical
	}
	if currentStock <= minStock {
		return StockLow
	}
	return StockGood
}

// StockPercentRemaining is the progress-bar value for a stock gauge,
// clamped to [0, 100]. A zero minimum yields 0 rather than dividing.
func StockPercentRemaining(currentStock, minStock float64) float64 {
	if minStock <= 0 {
		return 0
	}
	pct := currentStock / minStock * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Label is the Portuguese display text for a stock status.
func (s StockStatus) Label() string {
	switch s {
	case StockGood:
		return "Estoque bom"
	case StockLow:
		return "Estoque baixo"
	case StockCritical:
		return "Estoque crítico"
	case StockOut:
		return "Sem estoque"
	}
	return "Status desconhecido"
}

// ColorClass is the CSS class set the frontend applies to a status badge.
func (s StockStatus) ColorClass() string {
	switch s {
	case StockGood:
		return "text-green-600 bg-green-50 border-green-200"
	case StockLow:
		return "text-yellow-600 bg-yellow-50 border-yellow-200"
	case StockCritical:
		return "text-red-600 bg-red-50 border-red-200"
	}
	return "text-gray-600 bg-gray-50 border-gray-200"
}

// StockStatus resolves the ingredient's current status.
func (i *Ingredient) StockStatus() StockStatus {
	return ResolveStockStatus(i.CurrentStock, i.MinStock)
}

// UnitCost is the price per single measurement unit, the figure recipe
// costing multiplies by line-item quantity.
func (i *Ingredient) UnitCost() float64 {
	if i.MeasurementValue <= 0 {
		return 0
	}
	return i.CurrentPrice / i.MeasurementValue
}

// IngredientResponse augments an ingredient with its derived stock fields.
type IngredientResponse struct {
	Ingredient
	StockStatus      StockStatus `json:"stock_status"`
	StockStatusLabel string      `json:"stock_status_label"`
	StockColorClass  string      `json:"stock_color_class"`
	PercentRemaining float64     `json:"percent_remaining"`
}

// ToResponse attaches the resolved stock status to the ingredient.
func (i *Ingredient) ToResponse() IngredientResponse {
	status := i.StockStatus()
	return IngredientResponse{
		Ingredient:       *i,
		StockStatus:      status,
		StockStatusLabel: status.Label(),
		StockColorClass:  status.ColorClass(),
		PercentRemaining: StockPercentRemaining(i.CurrentStock, i.MinStock),
	}
}
