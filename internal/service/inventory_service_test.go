package service

import (
	"testing"

	"momentocake-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStockedIngredient(repo *fakeIngredientRepo, name string, current, min float64) *model.Ingredient {
	ing := &model.Ingredient{
		Name:             name,
		Unit:             model.UnitKilogram,
		MeasurementValue: 1,
		CurrentStock:     current,
		MinStock:         min,
		IsActive:         true,
	}
	repo.Create(ing)
	return ing
}

func TestGetLowStockAlertsOrdering(t *testing.T) {
	repo := newFakeIngredientRepo()
	svc := NewInventoryService(repo, nil, nil, nil)

	seedStockedIngredient(repo, "Fermento", 0, 5)    // out
	seedStockedIngredient(repo, "Farinha", 20, 10)   // good, excluded
	seedStockedIngredient(repo, "Açúcar", 2, 10)     // critical
	seedStockedIngredient(repo, "Manteiga", 8, 10)   // low
	inactive := seedStockedIngredient(repo, "Corante", 0, 5)
	inactive.IsActive = false

	alerts, err := svc.GetLowStockAlerts()
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	// Worst first: out, then critical, then low
	assert.Equal(t, model.StockOut, alerts[0].StockStatus)
	assert.Equal(t, "Fermento", alerts[0].Name)
	assert.Equal(t, model.StockCritical, alerts[1].StockStatus)
	assert.Equal(t, model.StockLow, alerts[2].StockStatus)
}

func TestRecordStockMovementRejectsNonPositiveQuantity(t *testing.T) {
	repo := newFakeIngredientRepo()
	svc := NewInventoryService(repo, nil, nil, nil)
	actor := testActor()

	ing := seedStockedIngredient(repo, "Farinha", 10, 5)

	// A negative usage would otherwise raise stock
	_, err := svc.RecordStockMovement(&StockMovementRequest{
		IngredientID: ing.ID,
		Type:         model.MovementUsage,
		Quantity:     -5,
	}, actor)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.RecordStockMovement(&StockMovementRequest{
		IngredientID: ing.ID,
		Type:         model.MovementPurchase,
		Quantity:     -5,
	}, actor)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// Neither request touched the stored stock
	assert.Equal(t, 10.0, repo.ingredients[ing.ID].CurrentStock)
}

func TestCreateIngredientDuplicateName(t *testing.T) {
	repo := newFakeIngredientRepo()
	svc := NewInventoryService(repo, nil, nil, nil)
	actor := testActor()

	first := &model.Ingredient{
		Name:             "Farinha de trigo",
		Unit:             model.UnitKilogram,
		MeasurementValue: 1,
	}
	require.NoError(t, svc.CreateIngredient(first, actor))
	assert.Equal(t, model.CategoryOther, first.Category)

	dup := &model.Ingredient{
		Name:             "Farinha de trigo",
		Unit:             model.UnitKilogram,
		MeasurementValue: 1,
	}
	err := svc.CreateIngredient(dup, actor)
	assert.ErrorIs(t, err, ErrIngredientExists)
}
