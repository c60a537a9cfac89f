package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStockStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		min      float64
		expected StockStatus
	}{
		{"zero stock is out", 0, 10, StockOut},
		{"negative stock is out", -1, 10, StockOut},
		{"at half minimum is critical", 5, 10, StockCritical},
		{"below half minimum is critical", 2, 10, StockCritical},
		{"just above half minimum is low", 5.01, 10, StockLow},
		{"at minimum is low", 10, 10, StockLow},
		{"above minimum is good", 10.01, 10, StockGood},
		{"plenty of stock is good", 50, 10, StockGood},
		{"zero minimum with stock is good", 5, 0, StockGood},
		{"zero minimum without stock is out", 0, 0, StockOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveStockStatus(tt.current, tt.min))
		})
	}
}

func TestStockPercentRemaining(t *testing.T) {
	assert.Equal(t, 50.0, StockPercentRemaining(5, 10))
	assert.Equal(t, 20.0, StockPercentRemaining(2, 10))
	assert.Equal(t, 100.0, StockPercentRemaining(10, 10))

	// Clamped to [0, 100]
	assert.Equal(t, 100.0, StockPercentRemaining(25, 10))
	assert.Equal(t, 0.0, StockPercentRemaining(-3, 10))

	// Zero minimum never divides
	assert.Equal(t, 0.0, StockPercentRemaining(5, 0))
}

func TestStockStatusLabels(t *testing.T) {
	assert.Equal(t, "Estoque bom", StockGood.Label())
	assert.Equal(t, "Estoque baixo", StockLow.Label())
	assert.Equal(t, "Estoque crítico", StockCritical.Label())
	assert.Equal(t, "Sem estoque", StockOut.Label())
}

func TestIngredientUnitCost(t *testing.T) {
	ing := Ingredient{CurrentPrice: 5.50, MeasurementValue: 1}
	assert.Equal(t, 5.50, ing.UnitCost())

	// R$ 12 for 2 kg -> R$ 6 per kg
	ing = Ingredient{CurrentPrice: 12, MeasurementValue: 2}
	assert.Equal(t, 6.0, ing.UnitCost())

	// Guard against a zero measurement value
	ing = Ingredient{CurrentPrice: 12, MeasurementValue: 0}
	assert.Equal(t, 0.0, ing.UnitCost())
}

func TestIngredientToResponse(t *testing.T) {
	ing := Ingredient{
		Name:         "Farinha de trigo",
		CurrentStock: 2,
		MinStock:     10,
	}

	resp := ing.ToResponse()
	assert.Equal(t, StockCritical, resp.StockStatus)
	assert.Equal(t, "Estoque crítico", resp.StockStatusLabel)
	assert.Equal(t, 20.0, resp.PercentRemaining)
}
