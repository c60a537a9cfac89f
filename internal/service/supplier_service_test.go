package service

import (
	"testing"

	"momentocake-admin/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSupplierRepo struct {
	suppliers       map[uuid.UUID]*model.Supplier
	ingredientCount map[uuid.UUID]int64
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{
		suppliers:       map[uuid.UUID]*model.Supplier{},
		ingredientCount: map[uuid.UUID]int64{},
	}
}

func (f *fakeSupplierRepo) Create(supplier *model.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	f.suppliers[supplier.ID] = supplier
	return nil
}

func (f *fakeSupplierRepo) FindAll(activeOnly bool) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range f.suppliers {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSupplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	s, ok := f.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSupplierRepo) Update(supplier *model.Supplier) error {
	f.suppliers[supplier.ID] = supplier
	return nil
}

func (f *fakeSupplierRepo) Deactivate(id uuid.UUID, updatedBy string) error {
	s, ok := f.suppliers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.IsActive = false
	s.UpdatedBy = updatedBy
	return nil
}

func (f *fakeSupplierRepo) Delete(id uuid.UUID) error {
	delete(f.suppliers, id)
	return nil
}

func (f *fakeSupplierRepo) CountIngredientsFor(id uuid.UUID) (int64, error) {
	return f.ingredientCount[id], nil
}

func TestDeleteSupplierUnreferenced(t *testing.T) {
	repo := newFakeSupplierRepo()
	svc := NewSupplierService(repo)
	actor := testActor()

	supplier := &model.Supplier{Name: "Distribuidora Doce Lar", IsActive: true}
	require.NoError(t, repo.Create(supplier))

	deactivated, err := svc.DeleteSupplier(supplier.ID, actor)
	require.NoError(t, err)
	assert.False(t, deactivated)

	_, err = repo.FindByID(supplier.ID)
	assert.Error(t, err)
}

func TestDeleteSupplierReferencedDeactivates(t *testing.T) {
	repo := newFakeSupplierRepo()
	svc := NewSupplierService(repo)
	actor := testActor()

	supplier := &model.Supplier{Name: "Atacadão dos Confeiteiros", IsActive: true}
	require.NoError(t, repo.Create(supplier))
	repo.ingredientCount[supplier.ID] = 3

	deactivated, err := svc.DeleteSupplier(supplier.ID, actor)
	require.NoError(t, err)
	assert.True(t, deactivated)

	// The row survives, just inactive
	stored, err := repo.FindByID(supplier.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestCreateSupplierClampsRating(t *testing.T) {
	repo := newFakeSupplierRepo()
	svc := NewSupplierService(repo)
	actor := testActor()

	supplier := &model.Supplier{Name: "Empório da Serra"}
	require.NoError(t, svc.CreateSupplier(supplier, actor))
	assert.Equal(t, 3, supplier.Rating) // unset defaults to 3

	rated := &model.Supplier{Name: "Casa do Chocolate", Rating: 5}
	require.NoError(t, svc.CreateSupplier(rated, actor))
	assert.Equal(t, 5, rated.Rating)
}
