package repository

import (
	"momentocake-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(supplier *model.Supplier) error
	FindAll(activeOnly bool) ([]model.Supplier, error)
	FindByID(id uuid.UUID) (*model.Supplier, error)
	Update(supplier *model.Supplier) error
	Deactivate(id uuid.UUID, updatedBy string) error
	Delete(id uuid.UUID) error
	CountIngredientsFor(id uuid.UUID) (int64, error)
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *supplierRepo) FindAll(activeOnly bool) ([]model.Supplier, error) {
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var suppliers []model.Supplier
	err := query.Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Update(supplier *model.Supplier) error {
	return r.db.Save(supplier).Error
}

func (r *supplierRepo) Deactivate(id uuid.UUID, updatedBy string) error {
	return r.db.Model(&model.Supplier{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  false,
		"updated_by": updatedBy,
	}).Error
}

func (r *supplierRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Supplier{}, "id = ?", id).Error
}

// CountIngredientsFor reports how many ingredients reference the supplier.
// A referenced supplier is deactivated instead of deleted.
func (r *supplierRepo) CountIngredientsFor(id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Ingredient{}).Where("supplier_id = ?", id).Count(&count).Error
	return count, err
}
