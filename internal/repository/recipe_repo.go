package repository

import (
	"momentocake-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeFilters narrows recipe listings.
type RecipeFilters struct {
	Category   model.RecipeCategory
	Difficulty model.RecipeDifficulty
	Search     string
	ActiveOnly bool
}

type RecipeRepository interface {
	Create(recipe *model.Recipe) error
	FindAll(filters RecipeFilters) ([]model.Recipe, error)
	FindByID(id uuid.UUID) (*model.Recipe, error)
	Update(recipe *model.Recipe) error
	Delete(id uuid.UUID) error
	UpdateCosts(id uuid.UUID, totalCost, costPerServing, laborCost, suggestedPrice float64) error
	CountActive() (int64, error)

	Settings() (*model.RecipeSettings, error)
	SaveSettings(settings *model.RecipeSettings) error
	SeedDefaultSettings() error
}

type recipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) RecipeRepository {
	return &recipeRepo{db}
}

func (r *recipeRepo) Create(recipe *model.Recipe) error {
	return r.db.Create(recipe).Error
}

func (r *recipeRepo) FindAll(filters RecipeFilters) ([]model.Recipe, error) {
	query := r.db.Order("name ASC")

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var recipes []model.Recipe
	err := query.Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) FindByID(id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepo) Update(recipe *model.Recipe) error {
	return r.db.Save(recipe).Error
}

func (r *recipeRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Recipe{}, "id = ?", id).Error
}

func (r *recipeRepo) UpdateCosts(id uuid.UUID, totalCost, costPerServing, laborCost, suggestedPrice float64) error {
	return r.db.Model(&model.Recipe{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_cost":       totalCost,
		"cost_per_serving": costPerServing,
		"labor_cost":       laborCost,
		"suggested_price":  suggestedPrice,
	}).Error
}

func (r *recipeRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Recipe{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// Settings returns the single settings row. Callers should seed defaults
// at boot so this never misses in practice.
func (r *recipeRepo) Settings() (*model.RecipeSettings, error) {
	var settings model.RecipeSettings
	if err := r.db.First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *recipeRepo) SaveSettings(settings *model.RecipeSettings) error {
	return r.db.Save(settings).Error
}

func (r *recipeRepo) SeedDefaultSettings() error {
	var existing model.RecipeSettings
	err := r.db.First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(model.DefaultRecipeSettings()).Error
	}
	return err
}
