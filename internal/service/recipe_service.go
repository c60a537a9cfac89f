package service

import (
	"errors"
	"fmt"
	"time"

	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
	"momentocake-admin/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrCircularDependency = errors.New("circular sub-recipe dependency detected")
	ErrSettingsInvalid    = errors.New("invalid recipe settings")
)

type RecipeService interface {
	CreateRecipe(req *model.Recipe, actor *model.User) (*model.Recipe, error)
	UpdateRecipe(id uuid.UUID, req *model.Recipe, actor *model.User) (*model.Recipe, error)
	DeleteRecipe(id uuid.UUID) error
	GetRecipe(id uuid.UUID) (*model.Recipe, error)
	GetRecipes(filters repository.RecipeFilters) ([]model.Recipe, error)

	CalculateCosts(id uuid.UUID) (*model.CostBreakdown, error)
	GetSettings() (*model.RecipeSettings, error)
	UpdateSettings(req *model.RecipeSettings, actor *model.User) (*model.RecipeSettings, error)
	GetAnalytics() (*RecipeAnalytics, error)
}

// RecipeAnalytics summarizes the recipe catalog for the dashboard.
type RecipeAnalytics struct {
	TotalRecipes           int64                          `json:"total_recipes"`
	AverageCostPerServing  float64                        `json:"average_cost_per_serving"`
	CategoryDistribution   map[model.RecipeCategory]int   `json:"category_distribution"`
	DifficultyDistribution map[model.RecipeDifficulty]int `json:"difficulty_distribution"`
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
}

func NewRecipeService(rRepo repository.RecipeRepository, iRepo repository.IngredientRepository) RecipeService {
	return &recipeService{
		recipeRepo:     rRepo,
		ingredientRepo: iRepo,
	}
}

func (s *recipeService) CreateRecipe(req *model.Recipe, actor *model.User) (*model.Recipe, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// The primary key may arrive preset, so even a brand new recipe can
	// reference itself through its items
	for _, item := range req.RecipeItems {
		if item.Type == model.ItemSubRecipe && item.SubRecipeID != nil {
			if err := s.checkCircularDependency(req.ID, *item.SubRecipeID); err != nil {
				return nil, err
			}
		}
	}

	s.normalizeRecipe(req)
	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()

	if err := s.recipeRepo.Create(req); err != nil {
		return nil, err
	}

	// Derive the cost columns right away so listings never show zeros
	if breakdown, err := s.CalculateCosts(req.ID); err == nil {
		req.TotalCost = breakdown.TotalCost
		req.CostPerServing = breakdown.CostPerServing
		req.LaborCost = breakdown.LaborCost
		req.SuggestedPrice = breakdown.SuggestedPrice
	}

	return req, nil
}

func (s *recipeService) UpdateRecipe(id uuid.UUID, req *model.Recipe, actor *model.User) (*model.Recipe, error) {
	existing, err := s.recipeRepo.FindByID(id)
	if err != nil {
		return nil, ErrRecipeNotFound
	}

	// Reject items that would make this recipe depend on itself
	for _, item := range req.RecipeItems {
		if item.Type == model.ItemSubRecipe && item.SubRecipeID != nil {
			if err := s.checkCircularDependency(id, *item.SubRecipeID); err != nil {
				return nil, err
			}
		}
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Category = req.Category
	existing.Difficulty = req.Difficulty
	existing.GeneratedAmount = req.GeneratedAmount
	existing.GeneratedUnit = req.GeneratedUnit
	existing.Servings = req.Servings
	existing.RecipeItems = req.RecipeItems
	existing.Instructions = req.Instructions
	existing.Notes = req.Notes
	existing.IsActive = req.IsActive
	existing.UpdatedBy = actor.ID.String()
	s.normalizeRecipe(existing)

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.recipeRepo.Update(existing); err != nil {
		return nil, err
	}

	if breakdown, err := s.CalculateCosts(id); err == nil {
		existing.TotalCost = breakdown.TotalCost
		existing.CostPerServing = breakdown.CostPerServing
		existing.LaborCost = breakdown.LaborCost
		existing.SuggestedPrice = breakdown.SuggestedPrice
	}

	return existing, nil
}

// normalizeRecipe fills the derived structural fields: preparation time
// from step minutes, portion size from yield, item IDs and sort order.
func (s *recipeService) normalizeRecipe(recipe *model.Recipe) {
	recipe.PreparationTime = recipe.TotalStepMinutes()
	if recipe.Servings > 0 {
		recipe.PortionSize = recipe.GeneratedAmount / float64(recipe.Servings)
	}
	for i := range recipe.RecipeItems {
		if recipe.RecipeItems[i].ID == "" {
			recipe.RecipeItems[i].ID = uuid.New().String()
		}
		recipe.RecipeItems[i].SortOrder = i
	}
	for i := range recipe.Instructions {
		if recipe.Instructions[i].ID == "" {
			recipe.Instructions[i].ID = uuid.New().String()
		}
	}
	recipe.Instructions = sortSteps(recipe.Instructions)
}

func sortSteps(steps []model.RecipeStep) []model.RecipeStep {
	r := model.Recipe{Instructions: steps}
	return r.SortedInstructions()
}

// checkCircularDependency walks the sub-recipe graph from candidate and
// fails if it can reach recipeID.
func (s *recipeService) checkCircularDependency(recipeID, candidateID uuid.UUID) error {
	if recipeID == candidateID {
		return ErrCircularDependency
	}

	visited := map[uuid.UUID]bool{}
	stack := []uuid.UUID{candidateID}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true

		recipe, err := s.recipeRepo.FindByID(current)
		if err != nil {
			continue // unknown reference, nothing to walk
		}
		for _, item := range recipe.RecipeItems {
			if item.Type != model.ItemSubRecipe || item.SubRecipeID == nil {
				continue
			}
			if *item.SubRecipeID == recipeID {
				return ErrCircularDependency
			}
			stack = append(stack, *item.SubRecipeID)
		}
	}
	return nil
}

func (s *recipeService) DeleteRecipe(id uuid.UUID) error {
	if _, err := s.recipeRepo.FindByID(id); err != nil {
		return ErrRecipeNotFound
	}
	return s.recipeRepo.Delete(id)
}

func (s *recipeService) GetRecipe(id uuid.UUID) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(id)
	if err != nil {
		return nil, ErrRecipeNotFound
	}
	recipe.Instructions = recipe.SortedInstructions()
	return recipe, nil
}

func (s *recipeService) GetRecipes(filters repository.RecipeFilters) ([]model.Recipe, error) {
	return s.recipeRepo.FindAll(filters)
}

// CalculateCosts rolls up the recipe's cost and persists the derived
// columns. Ingredient lines cost quantity times the ingredient's price per
// measurement unit. Sub-recipe lines scale the sub-recipe's own total cost
// by the share of its generated amount consumed. Labor is billed from the
// summed step minutes at the configured hourly rate.
func (s *recipeService) CalculateCosts(id uuid.UUID) (*model.CostBreakdown, error) {
	recipe, err := s.recipeRepo.FindByID(id)
	if err != nil {
		return nil, ErrRecipeNotFound
	}

	settings, err := s.recipeRepo.Settings()
	if err != nil {
		settings = model.DefaultRecipeSettings()
	}

	visited := map[uuid.UUID]bool{id: true}
	breakdown, err := s.costOf(recipe, settings, visited)
	if err != nil {
		return nil, err
	}

	if err := s.recipeRepo.UpdateCosts(id, breakdown.TotalCost, breakdown.CostPerServing,
		breakdown.LaborCost, breakdown.SuggestedPrice); err != nil {
		return nil, err
	}

	return breakdown, nil
}

// costOf computes a breakdown without persisting. The visited set carries
// every recipe on the current recursion path; a sub-recipe already on the
// path contributes zero cost rather than recursing forever.
func (s *recipeService) costOf(recipe *model.Recipe, settings *model.RecipeSettings, visited map[uuid.UUID]bool) (*model.CostBreakdown, error) {
	var itemCosts []model.RecipeItemCost
	var ingredientCost, subRecipeCost float64

	for _, item := range recipe.RecipeItems {
		switch item.Type {
		case model.ItemIngredient:
			cost := s.ingredientItemCost(item)
			ingredientCost += cost.TotalCost
			itemCosts = append(itemCosts, cost)
		case model.ItemSubRecipe:
			cost := s.subRecipeItemCost(item, settings, visited)
			subRecipeCost += cost.TotalCost
			itemCosts = append(itemCosts, cost)
		}
	}

	totalItemCost := ingredientCost + subRecipeCost
	laborCost := float64(recipe.PreparationTime) / 60 * settings.LaborHourRate
	totalCost := totalItemCost + laborCost

	costPerServing := 0.0
	if recipe.Servings > 0 {
		costPerServing = totalCost / float64(recipe.Servings)
	}

	margin := settings.MarginFor(recipe.Category)
	suggestedPrice := costPerServing * (margin / 100)

	profitAmount := suggestedPrice - costPerServing
	profitPercentage := 0.0
	if costPerServing > 0 {
		profitPercentage = profitAmount / costPerServing * 100
	}

	return &model.CostBreakdown{
		RecipeID:         recipe.ID,
		ItemCosts:        itemCosts,
		IngredientCost:   ingredientCost,
		SubRecipeCost:    subRecipeCost,
		TotalItemCost:    totalItemCost,
		LaborCost:        laborCost,
		TotalCost:        totalCost,
		CostPerServing:   costPerServing,
		SuggestedPrice:   suggestedPrice,
		Margin:           margin,
		ProfitAmount:     profitAmount,
		ProfitPercentage: profitPercentage,
		Servings:         recipe.Servings,
		CalculatedAt:     time.Now(),
	}, nil
}

// ingredientItemCost prices one ingredient line. Missing references cost
// zero rather than failing the whole breakdown.
func (s *recipeService) ingredientItemCost(item model.RecipeItem) model.RecipeItemCost {
	cost := model.RecipeItemCost{
		ItemID:   item.ID,
		Type:     model.ItemIngredient,
		ItemName: item.IngredientName,
		Quantity: item.Quantity,
		Unit:     item.Unit,
	}

	if item.IngredientID == nil {
		return cost
	}
	ingredient, err := s.ingredientRepo.FindByID(*item.IngredientID)
	if err != nil {
		return cost
	}

	if cost.ItemName == "" {
		cost.ItemName = ingredient.Name
	}
	cost.UnitCost = ingredient.UnitCost()
	cost.TotalCost = item.Quantity * cost.UnitCost
	return cost
}

// subRecipeItemCost prices one sub-recipe line proportionally: using 300g
// of a component that yields 600g costs half the component's total.
func (s *recipeService) subRecipeItemCost(item model.RecipeItem, settings *model.RecipeSettings, visited map[uuid.UUID]bool) model.RecipeItemCost {
	cost := model.RecipeItemCost{
		ItemID:   item.ID,
		Type:     model.ItemSubRecipe,
		ItemName: item.SubRecipeName,
		Quantity: item.Quantity,
		Unit:     item.Unit,
	}

	if item.SubRecipeID == nil || visited[*item.SubRecipeID] {
		return cost
	}

	subRecipe, err := s.recipeRepo.FindByID(*item.SubRecipeID)
	if err != nil {
		return cost
	}

	visited[*item.SubRecipeID] = true
	subBreakdown, err := s.costOf(subRecipe, settings, visited)
	delete(visited, *item.SubRecipeID)
	if err != nil {
		return cost
	}

	if cost.ItemName == "" {
		cost.ItemName = subRecipe.Name
	}
	if subRecipe.GeneratedAmount > 0 {
		proportion := item.Quantity / subRecipe.GeneratedAmount
		cost.ProportionUsed = &proportion
		cost.UnitCost = subBreakdown.TotalCost / subRecipe.GeneratedAmount
		cost.TotalCost = item.Quantity * cost.UnitCost
	}
	return cost
}

func (s *recipeService) GetSettings() (*model.RecipeSettings, error) {
	settings, err := s.recipeRepo.Settings()
	if err != nil {
		return model.DefaultRecipeSettings(), nil
	}
	return settings, nil
}

func (s *recipeService) UpdateSettings(req *model.RecipeSettings, actor *model.User) (*model.RecipeSettings, error) {
	if req.LaborHourRate < 0 || req.LaborHourRate > 1000 {
		return nil, ErrSettingsInvalid
	}
	if req.DefaultMargin < 100 || req.DefaultMargin > 1000 {
		return nil, ErrSettingsInvalid
	}
	for _, m := range req.MarginsByCategory {
		if m < 100 || m > 1000 {
			return nil, ErrSettingsInvalid
		}
	}

	settings, err := s.recipeRepo.Settings()
	if err != nil {
		settings = model.DefaultRecipeSettings()
	}
	settings.LaborHourRate = req.LaborHourRate
	settings.DefaultMargin = req.DefaultMargin
	if req.MarginsByCategory != nil {
		settings.MarginsByCategory = req.MarginsByCategory
	}
	settings.UpdatedBy = actor.ID.String()

	if err := s.recipeRepo.SaveSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *recipeService) GetAnalytics() (*RecipeAnalytics, error) {
	recipes, err := s.recipeRepo.FindAll(repository.RecipeFilters{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	analytics := &RecipeAnalytics{
		TotalRecipes:           int64(len(recipes)),
		CategoryDistribution:   map[model.RecipeCategory]int{},
		DifficultyDistribution: map[model.RecipeDifficulty]int{},
	}

	var totalCostPerServing float64
	for _, r := range recipes {
		analytics.CategoryDistribution[r.Category]++
		analytics.DifficultyDistribution[r.Difficulty]++
		totalCostPerServing += r.CostPerServing
	}
	if len(recipes) > 0 {
		analytics.AverageCostPerServing = totalCostPerServing / float64(len(recipes))
	}

	return analytics, nil
}
