package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedInstructions(t *testing.T) {
	r := Recipe{
		Instructions: []RecipeStep{
			{ID: "c", StepNumber: 3, Instruction: "Assar"},
			{ID: "a", StepNumber: 1, Instruction: "Misturar secos"},
			{ID: "b", StepNumber: 2, Instruction: "Adicionar ovos"},
		},
	}

	sorted := r.SortedInstructions()
	assert.Equal(t, []string{"a", "b", "c"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})

	// Original slice untouched
	assert.Equal(t, "c", r.Instructions[0].ID)
}

func TestSortedInstructionsDuplicateNumbers(t *testing.T) {
	// Duplicate step numbers are tolerated; stored order is kept for ties
	r := Recipe{
		Instructions: []RecipeStep{
			{ID: "first", StepNumber: 2},
			{ID: "second", StepNumber: 2},
			{ID: "opener", StepNumber: 1},
		},
	}

	sorted := r.SortedInstructions()
	assert.Equal(t, "opener", sorted[0].ID)
	assert.Equal(t, "first", sorted[1].ID)
	assert.Equal(t, "second", sorted[2].ID)
}

func TestTotalStepMinutes(t *testing.T) {
	r := Recipe{
		Instructions: []RecipeStep{
			{StepNumber: 1, TimeMinutes: 15},
			{StepNumber: 2, TimeMinutes: 30},
			{StepNumber: 3, TimeMinutes: 0},
		},
	}
	assert.Equal(t, 45, r.TotalStepMinutes())

	empty := Recipe{}
	assert.Equal(t, 0, empty.TotalStepMinutes())
}

func TestMarginFor(t *testing.T) {
	settings := DefaultRecipeSettings()

	assert.Equal(t, 180.0, settings.MarginFor(RecipeCupcakes))
	assert.Equal(t, 300.0, settings.MarginFor(RecipeIcings))

	// Unknown category falls back to the default margin
	assert.Equal(t, settings.DefaultMargin, settings.MarginFor(RecipeCategory("bolo-fake")))

	// A zero override also falls back
	settings.MarginsByCategory[RecipeBreads] = 0
	assert.Equal(t, settings.DefaultMargin, settings.MarginFor(RecipeBreads))
}

func TestDefaultRecipeSettings(t *testing.T) {
	settings := DefaultRecipeSettings()
	assert.Equal(t, 25.00, settings.LaborHourRate)
	assert.Equal(t, 150.00, settings.DefaultMargin)
	assert.Len(t, settings.MarginsByCategory, 8)
}
