package model

import (
	"math"

	"github.com/google/uuid"
)

// StockMovementType is the reason attached to a stock mutation.
type StockMovementType string

const (
	MovementPurchase   StockMovementType = "purchase"
	MovementUsage      StockMovementType = "usage"
	MovementWaste      StockMovementType = "waste"
	MovementAdjustment StockMovementType = "adjustment"
	MovementCorrection StockMovementType = "correction"
)

// AddsStock reports whether the movement type increases stock. Purchases
// add; usage and waste subtract. Adjustments and corrections carry a signed
// quantity and are applied as-is.
func (t StockMovementType) AddsStock() bool {
	return t == MovementPurchase
}

// Signed reports whether quantity is interpreted as a signed delta.
func (t StockMovementType) Signed() bool {
	return t == MovementAdjustment || t == MovementCorrection
}

// ApplyMovement computes the stock level after a movement. For unsigned
// types the direction comes from the type alone, so the quantity's sign is
// discarded: a usage can never raise stock. Negative results are clamped to
// zero: the store never holds negative stock even when a usage entry
// overshoots the counted amount.
func ApplyMovement(current float64, movement StockMovementType, quantity float64) float64 {
	var next float64
	switch {
	case movement.Signed():
		next = current + quantity
	case movement.AddsStock():
		next = current + math.Abs(quantity)
	default:
		next = current - math.Abs(quantity)
	}
	if next < 0 {
		return 0
	}
	return next
}

// StockHistory records a single stock mutation of an ingredient.
type StockHistory struct {
	BaseModel
	IngredientID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"ingredient_id" validate:"uuid_required"`
	Ingredient    *Ingredient       `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Type          StockMovementType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=purchase usage waste adjustment correction"`
	Quantity      float64           `gorm:"not null" json:"quantity" validate:"required"`
	PreviousStock float64           `gorm:"not null" json:"previous_stock"`
	NewStock      float64           `gorm:"not null" json:"new_stock"`
	Reason        string            `gorm:"type:text" json:"reason,omitempty"`
}

// PriceHistory records an ingredient purchase price over time.
type PriceHistory struct {
	BaseModel
	IngredientID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"ingredient_id" validate:"uuid_required"`
	Ingredient       *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	SupplierID       *uuid.UUID  `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier         *Supplier   `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Price            float64     `gorm:"not null" json:"price" validate:"gt=0"`
	Quantity         float64     `gorm:"not null;default:0" json:"quantity"`
	ChangePercentage *float64    `json:"change_percentage,omitempty"` // vs. previous entry, nil for the first
	Notes            string      `gorm:"type:text" json:"notes,omitempty"`
}
