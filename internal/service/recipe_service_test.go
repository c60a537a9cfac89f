package service

import (
	"errors"
	"testing"

	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// In-memory fakes so cost math is tested without a database.

type fakeRecipeRepo struct {
	recipes  map[uuid.UUID]*model.Recipe
	settings *model.RecipeSettings
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{recipes: map[uuid.UUID]*model.Recipe{}}
}

func (f *fakeRecipeRepo) Create(recipe *model.Recipe) error {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	f.recipes[recipe.ID] = recipe
	return nil
}

func (f *fakeRecipeRepo) FindAll(filters repository.RecipeFilters) ([]model.Recipe, error) {
	var out []model.Recipe
	for _, r := range f.recipes {
		if filters.ActiveOnly && !r.IsActive {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRecipeRepo) FindByID(id uuid.UUID) (*model.Recipe, error) {
	r, ok := f.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRecipeRepo) Update(recipe *model.Recipe) error {
	f.recipes[recipe.ID] = recipe
	return nil
}

func (f *fakeRecipeRepo) Delete(id uuid.UUID) error {
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeRepo) UpdateCosts(id uuid.UUID, totalCost, costPerServing, laborCost, suggestedPrice float64) error {
	r, ok := f.recipes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.TotalCost = totalCost
	r.CostPerServing = costPerServing
	r.LaborCost = laborCost
	r.SuggestedPrice = suggestedPrice
	return nil
}

func (f *fakeRecipeRepo) CountActive() (int64, error) {
	var n int64
	for _, r := range f.recipes {
		if r.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeRecipeRepo) Settings() (*model.RecipeSettings, error) {
	if f.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.settings, nil
}

func (f *fakeRecipeRepo) SaveSettings(settings *model.RecipeSettings) error {
	f.settings = settings
	return nil
}

func (f *fakeRecipeRepo) SeedDefaultSettings() error {
	if f.settings == nil {
		f.settings = model.DefaultRecipeSettings()
	}
	return nil
}

type fakeIngredientRepo struct {
	ingredients map[uuid.UUID]*model.Ingredient
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{ingredients: map[uuid.UUID]*model.Ingredient{}}
}

func (f *fakeIngredientRepo) Create(ingredient *model.Ingredient) error {
	if ingredient.ID == uuid.Nil {
		ingredient.ID = uuid.New()
	}
	f.ingredients[ingredient.ID] = ingredient
	return nil
}

func (f *fakeIngredientRepo) FindAll(filters repository.IngredientFilters) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, i := range f.ingredients {
		out = append(out, *i)
	}
	return out, nil
}

func (f *fakeIngredientRepo) FindByID(id uuid.UUID) (*model.Ingredient, error) {
	i, ok := f.ingredients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (f *fakeIngredientRepo) FindByName(name string) (*model.Ingredient, error) {
	for _, i := range f.ingredients {
		if i.Name == name {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeIngredientRepo) Update(ingredient *model.Ingredient) error {
	f.ingredients[ingredient.ID] = ingredient
	return nil
}

func (f *fakeIngredientRepo) Delete(id uuid.UUID) error {
	delete(f.ingredients, id)
	return nil
}

func (f *fakeIngredientRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock float64, updatedBy string) error {
	f.ingredients[id].CurrentStock = newStock
	return nil
}

func (f *fakeIngredientRepo) UpdatePrice(tx *gorm.DB, id uuid.UUID, newPrice float64, updatedBy string) error {
	f.ingredients[id].CurrentPrice = newPrice
	return nil
}

func seedIngredient(repo *fakeIngredientRepo, name string, price, measurement float64) *model.Ingredient {
	ing := &model.Ingredient{
		Name:             name,
		Unit:             model.UnitKilogram,
		CurrentPrice:     price,
		MeasurementValue: measurement,
		IsActive:         true,
	}
	repo.Create(ing)
	return ing
}

func testActor() *model.User {
	u := &model.User{Role: model.RoleAdmin, IsActive: true}
	u.ID = uuid.New()
	return u
}

func TestCalculateCostsIngredientsAndLabor(t *testing.T) {
	recipeRepo := newFakeRecipeRepo()
	ingredientRepo := newFakeIngredientRepo()
	recipeRepo.settings = &model.RecipeSettings{
		LaborHourRate: 5.00,
		DefaultMargin: 200.00,
	}
	svc := NewRecipeService(recipeRepo, ingredientRepo)

	// 1.50 per unit and 5.00 per unit
	flour := seedIngredient(ingredientRepo, "Farinha", 1.50, 1)
	chocolate := seedIngredient(ingredientRepo, "Chocolate", 5.00, 1)

	recipe := &model.Recipe{
		Name:            "Bolo de chocolate",
		Category:        model.RecipeOtherCat,
		Servings:        4,
		GeneratedAmount: 1000,
		PreparationTime: 12, // 12 min at R$5/h -> R$1.00 labor
		RecipeItems: []model.RecipeItem{
			{ID: "i1", Type: model.ItemIngredient, IngredientID: &flour.ID, Quantity: 2},       // 3.00
			{ID: "i2", Type: model.ItemIngredient, IngredientID: &chocolate.ID, Quantity: 0.5}, // 2.50
		},
		IsActive: true,
	}
	require.NoError(t, recipeRepo.Create(recipe))

	breakdown, err := svc.CalculateCosts(recipe.ID)
	require.NoError(t, err)

	assert.InDelta(t, 5.50, breakdown.IngredientCost, 1e-6)
	assert.InDelta(t, 1.00, breakdown.LaborCost, 1e-6)
	assert.InDelta(t, 6.50, breakdown.TotalCost, 1e-6)
	assert.InDelta(t, 1.625, breakdown.CostPerServing, 1e-6)

	// 200% margin on cost per serving
	assert.InDelta(t, 3.25, breakdown.SuggestedPrice, 1e-6)

	// Derived columns persisted
	stored, _ := recipeRepo.FindByID(recipe.ID)
	assert.InDelta(t, 6.50, stored.TotalCost, 1e-6)
	assert.InDelta(t, 1.625, stored.CostPerServing, 1e-6)
}

func TestCalculateCostsSubRecipeProportional(t *testing.T) {
	recipeRepo := newFakeRecipeRepo()
	ingredientRepo := newFakeIngredientRepo()
	recipeRepo.settings = &model.RecipeSettings{LaborHourRate: 0, DefaultMargin: 150}
	svc := NewRecipeService(recipeRepo, ingredientRepo)

	// The filling yields 600g and costs 6.00 in ingredients
	sugar := seedIngredient(ingredientRepo, "Açúcar", 0.01, 1)
	filling := &model.Recipe{
		Name:            "Recheio",
		Category:        model.RecipeFillings,
		Servings:        1,
		GeneratedAmount: 600,
		RecipeItems: []model.RecipeItem{
			{ID: "f1", Type: model.ItemIngredient, IngredientID: &sugar.ID, Quantity: 600},
		},
		IsActive: true,
	}
	require.NoError(t, recipeRepo.Create(filling))

	// The cake uses half the filling's yield
	cake := &model.Recipe{
		Name:            "Bolo recheado",
		Category:        model.RecipeCakes,
		Servings:        2,
		GeneratedAmount: 1200,
		RecipeItems: []model.RecipeItem{
			{ID: "c1", Type: model.ItemSubRecipe, SubRecipeID: &filling.ID, Quantity: 300},
		},
		IsActive: true,
	}
	require.NoError(t, recipeRepo.Create(cake))

	breakdown, err := svc.CalculateCosts(cake.ID)
	require.NoError(t, err)

	// 300 of 600 generated -> half of 6.00
	assert.InDelta(t, 3.00, breakdown.SubRecipeCost, 1e-6)
	assert.InDelta(t, 3.00, breakdown.TotalCost, 1e-6)
	require.Len(t, breakdown.ItemCosts, 1)
	require.NotNil(t, breakdown.ItemCosts[0].ProportionUsed)
	assert.InDelta(t, 0.5, *breakdown.ItemCosts[0].ProportionUsed, 1e-6)
}

func TestCalculateCostsSelfReferenceContributesZero(t *testing.T) {
	recipeRepo := newFakeRecipeRepo()
	ingredientRepo := newFakeIngredientRepo()
	recipeRepo.settings = &model.RecipeSettings{LaborHourRate: 0, DefaultMargin: 150}
	svc := NewRecipeService(recipeRepo, ingredientRepo)

	recipe := &model.Recipe{
		Name:            "Massa infinita",
		Servings:        1,
		GeneratedAmount: 100,
		IsActive:        true,
	}
	require.NoError(t, recipeRepo.Create(recipe))

	// Pathological data already in the store: the recipe references itself
	recipe.RecipeItems = []model.RecipeItem{
		{ID: "s1", Type: model.ItemSubRecipe, SubRecipeID: &recipe.ID, Quantity: 50},
	}
	require.NoError(t, recipeRepo.Update(recipe))

	breakdown, err := svc.CalculateCosts(recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, breakdown.TotalCost)
}

func TestUpdateRecipeRejectsCircularDependency(t *testing.T) {
	recipeRepo := newFakeRecipeRepo()
	ingredientRepo := newFakeIngredientRepo()
	svc := NewRecipeService(recipeRepo, ingredientRepo)
	actor := testActor()

	base := &model.Recipe{Name: "Massa base", Servings: 1, GeneratedAmount: 500, IsActive: true}
	require.NoError(t, recipeRepo.Create(base))

	cake := &model.Recipe{
		Name:            "Bolo",
		Servings:        4,
		GeneratedAmount: 1000,
		RecipeItems: []model.RecipeItem{
			{ID: "c1", Type: model.ItemSubRecipe, SubRecipeID: &base.ID, Quantity: 250},
		},
		IsActive: true,
	}
	require.NoError(t, recipeRepo.Create(cake))

	// Making the base depend on the cake closes the cycle
	update := *base
	update.RecipeItems = []model.RecipeItem{
		{ID: "b1", Type: model.ItemSubRecipe, SubRecipeID: &cake.ID, Quantity: 100},
	}
	_, err := svc.UpdateRecipe(base.ID, &update, actor)
	assert.True(t, errors.Is(err, ErrCircularDependency))

	// Direct self-reference is also rejected
	selfUpdate := *base
	selfUpdate.RecipeItems = []model.RecipeItem{
		{ID: "b2", Type: model.ItemSubRecipe, SubRecipeID: &base.ID, Quantity: 100},
	}
	_, err = svc.UpdateRecipe(base.ID, &selfUpdate, actor)
	assert.True(t, errors.Is(err, ErrCircularDependency))
}

func TestCreateRecipeRejectsSelfReference(t *testing.T) {
	recipeRepo := newFakeRecipeRepo()
	svc := NewRecipeService(recipeRepo, newFakeIngredientRepo())
	actor := testActor()

	// A client-chosen primary key lets a new recipe point at itself
	id := uuid.New()
	recipe := &model.Recipe{
		Name:            "Massa recursiva",
		Servings:        1,
		GeneratedAmount: 500,
		RecipeItems: []model.RecipeItem{
			{ID: "r1", Type: model.ItemSubRecipe, SubRecipeID: &id, Quantity: 100},
		},
		IsActive: true,
	}
	recipe.ID = id

	_, err := svc.CreateRecipe(recipe, actor)
	assert.ErrorIs(t, err, ErrCircularDependency)
	assert.Empty(t, recipeRepo.recipes)
}

func TestCostPerServingGuardsZeroServings(t *testing.T) {
	recipeRepo := newFakeRecipeRepo()
	ingredientRepo := newFakeIngredientRepo()
	recipeRepo.settings = &model.RecipeSettings{LaborHourRate: 10, DefaultMargin: 150}
	svc := NewRecipeService(recipeRepo, ingredientRepo)

	recipe := &model.Recipe{
		Name:            "Calda",
		Servings:        0, // pathological row
		GeneratedAmount: 100,
		PreparationTime: 30,
		IsActive:        true,
	}
	require.NoError(t, recipeRepo.Create(recipe))

	breakdown, err := svc.CalculateCosts(recipe.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.00, breakdown.TotalCost, 1e-6) // labor only
	assert.Equal(t, 0.0, breakdown.CostPerServing)
	assert.Equal(t, 0.0, breakdown.SuggestedPrice)
}

func TestUpdateSettingsValidatesRanges(t *testing.T) {
	recipeRepo := newFakeRecipeRepo()
	recipeRepo.settings = model.DefaultRecipeSettings()
	svc := NewRecipeService(recipeRepo, newFakeIngredientRepo())
	actor := testActor()

	_, err := svc.UpdateSettings(&model.RecipeSettings{LaborHourRate: -1, DefaultMargin: 150}, actor)
	assert.ErrorIs(t, err, ErrSettingsInvalid)

	_, err = svc.UpdateSettings(&model.RecipeSettings{LaborHourRate: 30, DefaultMargin: 50}, actor)
	assert.ErrorIs(t, err, ErrSettingsInvalid)

	updated, err := svc.UpdateSettings(&model.RecipeSettings{LaborHourRate: 30, DefaultMargin: 175}, actor)
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.LaborHourRate)
	assert.Equal(t, 175.0, updated.DefaultMargin)
}
