package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RecipeCategory groups recipes; each category carries its own pricing margin.
type RecipeCategory string

const (
	RecipeCakes    RecipeCategory = "cakes"
	RecipeCupcakes RecipeCategory = "cupcakes"
	RecipeCookies  RecipeCategory = "cookies"
	RecipeBreads   RecipeCategory = "breads"
	RecipePastries RecipeCategory = "pastries"
	RecipeIcings   RecipeCategory = "icings"
	RecipeFillings RecipeCategory = "fillings"
	RecipeOtherCat RecipeCategory = "other"
)

// RecipeDifficulty is the skill level required for a recipe.
type RecipeDifficulty string

const (
	DifficultyEasy   RecipeDifficulty = "easy"
	DifficultyMedium RecipeDifficulty = "medium"
	DifficultyHard   RecipeDifficulty = "hard"
)

// RecipeItemType discriminates the two kinds of recipe line items.
type RecipeItemType string

const (
	ItemIngredient RecipeItemType = "ingredient"
	ItemSubRecipe  RecipeItemType = "recipe"
)

// RecipeItem is one line of a recipe: either a raw ingredient or another
// recipe used as a component. Names are denormalized for display; Cost is
// the snapshot written by the last cost calculation.
type RecipeItem struct {
	ID             string         `json:"id"`
	Type           RecipeItemType `json:"type" validate:"required,oneof=ingredient recipe"`
	IngredientID   *uuid.UUID     `json:"ingredient_id,omitempty"`
	IngredientName string         `json:"ingredient_name,omitempty"`
	SubRecipeID    *uuid.UUID     `json:"sub_recipe_id,omitempty"`
	SubRecipeName  string         `json:"sub_recipe_name,omitempty"`
	Quantity       float64        `json:"quantity" validate:"gt=0"`
	Unit           IngredientUnit `json:"unit"`
	Cost           float64        `json:"cost"`
	Notes          string         `json:"notes,omitempty"`
	SortOrder      int            `json:"sort_order"`
}

// RecipeStep is a single preparation instruction. StepNumber is a sort key
// only; duplicates are tolerated and preserved.
type RecipeStep struct {
	ID          string `json:"id"`
	StepNumber  int    `json:"step_number"`
	Instruction string `json:"instruction" validate:"required"`
	TimeMinutes int    `json:"time_minutes" validate:"gte=0"`
	Notes       string `json:"notes,omitempty"`
}

// Recipe is a costed production formula. The cost columns are derived
// fields recomputed whenever items, settings or ingredient prices change.
type Recipe struct {
	BaseModel
	Name        string           `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string           `gorm:"type:text" json:"description,omitempty"`
	Category    RecipeCategory   `gorm:"type:varchar(30);not null;default:'other'" json:"category"`
	Difficulty  RecipeDifficulty `gorm:"type:varchar(10);not null;default:'easy'" json:"difficulty" validate:"omitempty,oneof=easy medium hard"`

	// Yield: the recipe produces GeneratedAmount of GeneratedUnit, split
	// into Servings portions.
	GeneratedAmount float64        `gorm:"not null;default:0" json:"generated_amount" validate:"gte=0"`
	GeneratedUnit   IngredientUnit `gorm:"type:varchar(20);not null;default:'gram'" json:"generated_unit"`
	Servings        int            `gorm:"not null;default:1" json:"servings" validate:"gt=0"`
	PortionSize     float64        `gorm:"not null;default:0" json:"portion_size"`

	PreparationTime int `gorm:"not null;default:0" json:"preparation_time"` // minutes, sum of step times

	RecipeItems  []RecipeItem `gorm:"type:jsonb;serializer:json" json:"recipe_items"`
	Instructions []RecipeStep `gorm:"type:jsonb;serializer:json" json:"instructions"`
	Notes        string       `gorm:"type:text" json:"notes,omitempty"`

	// Derived cost fields
	TotalCost      float64 `gorm:"not null;default:0" json:"total_cost"`
	CostPerServing float64 `gorm:"not null;default:0" json:"cost_per_serving"`
	LaborCost      float64 `gorm:"not null;default:0" json:"labor_cost"`
	SuggestedPrice float64 `gorm:"not null;default:0" json:"suggested_price"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// SortedInstructions returns the steps ordered by step number ascending.
// The stored order is preserved for equal numbers.
func (r *Recipe) SortedInstructions() []RecipeStep {
	steps := make([]RecipeStep, len(r.Instructions))
	copy(steps, r.Instructions)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepNumber < steps[j].StepNumber
	})
	return steps
}

// TotalStepMinutes sums the time of every instruction step.
func (r *Recipe) TotalStepMinutes() int {
	total := 0
	for _, s := range r.Instructions {
		total += s.TimeMinutes
	}
	return total
}

// RecipeSettings holds the pricing knobs applied by the cost aggregator.
// A single row; seeded with the bakery's defaults at boot.
type RecipeSettings struct {
	BaseModel
	LaborHourRate     float64                    `gorm:"not null;default:25" json:"labor_hour_rate" validate:"gte=0"`
	DefaultMargin     float64                    `gorm:"not null;default:150" json:"default_margin" validate:"gte=100"`
	MarginsByCategory map[RecipeCategory]float64 `gorm:"type:jsonb;serializer:json" json:"margins_by_category"`
}

// MarginFor returns the pricing margin for a category, falling back to the
// default margin when no per-category override exists.
func (s *RecipeSettings) MarginFor(category RecipeCategory) float64 {
	if m, ok := s.MarginsByCategory[category]; ok && m > 0 {
		return m
	}
	return s.DefaultMargin
}

// DefaultRecipeSettings is the seed row applied when no settings exist.
func DefaultRecipeSettings() *RecipeSettings {
	return &RecipeSettings{
		LaborHourRate: 25.00,
		DefaultMargin: 150.00,
		MarginsByCategory: map[RecipeCategory]float64{
			RecipeCakes:    150.00,
			RecipeCupcakes: 180.00,
			RecipeCookies:  200.00,
			RecipeBreads:   120.00,
			RecipePastries: 160.00,
			RecipeIcings:   300.00,
			RecipeFillings: 250.00,
			RecipeOtherCat: 150.00,
		},
	}
}

// RecipeItemCost is one line of a cost breakdown.
type RecipeItemCost struct {
	ItemID         string         `json:"item_id"`
	Type           RecipeItemType `json:"type"`
	ItemName       string         `json:"item_name"`
	Quantity       float64        `json:"quantity"`
	Unit           IngredientUnit `json:"unit"`
	UnitCost       float64        `json:"unit_cost"`
	TotalCost      float64        `json:"total_cost"`
	ProportionUsed *float64       `json:"proportion_used,omitempty"` // sub-recipes only
}

// CostBreakdown is the full result of a recipe cost calculation.
type CostBreakdown struct {
	RecipeID         uuid.UUID        `json:"recipe_id"`
	ItemCosts        []RecipeItemCost `json:"item_costs"`
	IngredientCost   float64          `json:"ingredient_cost"`
	SubRecipeCost    float64          `json:"sub_recipe_cost"`
	TotalItemCost    float64          `json:"total_item_cost"`
	LaborCost        float64          `json:"labor_cost"`
	TotalCost        float64          `json:"total_cost"`
	CostPerServing   float64          `json:"cost_per_serving"`
	SuggestedPrice   float64          `json:"suggested_price"`
	Margin           float64          `json:"margin"`
	ProfitAmount     float64          `json:"profit_amount"`
	ProfitPercentage float64          `json:"profit_percentage"`
	Servings         int              `json:"servings"`
	CalculatedAt     time.Time        `json:"calculated_at"`
}
