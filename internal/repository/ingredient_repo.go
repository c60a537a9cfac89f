package repository

import (
	"momentocake-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngredientFilters narrows ingredient listings. StockStatus is applied
// in memory after the query since it is a derived field.
type IngredientFilters struct {
	Category    model.IngredientCategory
	SupplierID  *uuid.UUID
	StockStatus model.StockStatus
	Search      string
}

type IngredientRepository interface {
	Create(ingredient *model.Ingredient) error
	FindAll(filters IngredientFilters) ([]model.Ingredient, error)
	FindByID(id uuid.UUID) (*model.Ingredient, error)
	FindByName(name string) (*model.Ingredient, error)
	Update(ingredient *model.Ingredient) error
	Delete(id uuid.UUID) error
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock float64, updatedBy string) error
	UpdatePrice(tx *gorm.DB, id uuid.UUID, newPrice float64, updatedBy string) error
}

type ingredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) IngredientRepository {
	return &ingredientRepo{db}
}

func (r *ingredientRepo) Create(ingredient *model.Ingredient) error {
	return r.db.Create(ingredient).Error
}

func (r *ingredientRepo) FindAll(filters IngredientFilters) ([]model.Ingredient, error) {
	query := r.db.Preload("Supplier")

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	var ingredients []model.Ingredient
	if err := query.Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}

	if filters.StockStatus == "" {
		return ingredients, nil
	}

	// Stock status is derived, filter after the fetch
	filtered := ingredients[:0]
	for _, ing := range ingredients {
		if ing.StockStatus() == filters.StockStatus {
			filtered = append(filtered, ing)
		}
	}
	return filtered, nil
}

func (r *ingredientRepo) FindByID(id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	err := r.db.Preload("Supplier").First(&ingredient, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepo) FindByName(name string) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	err := r.db.First(&ingredient, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepo) Update(ingredient *model.Ingredient) error {
	return r.db.Save(ingredient).Error
}

func (r *ingredientRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Ingredient{}, "id = ?", id).Error
}

// UpdateStock runs on the caller's transaction so stock mutations stay
// atomic with their history entries.
func (r *ingredientRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock float64, updatedBy string) error {
	return tx.Model(&model.Ingredient{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_stock": newStock,
			"updated_by":    updatedBy,
		}).Error
}

func (r *ingredientRepo) UpdatePrice(tx *gorm.DB, id uuid.UUID, newPrice float64, updatedBy string) error {
	return tx.Model(&model.Ingredient{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_price": newPrice,
			"updated_by":    updatedBy,
		}).Error
}
