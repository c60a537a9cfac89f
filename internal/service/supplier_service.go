package service

import (
	"errors"
	"fmt"

	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
	"momentocake-admin/pkg/validator"

	"github.com/google/uuid"
)

var ErrSupplierNotFound = errors.New("supplier not found")

type SupplierService interface {
	CreateSupplier(req *model.Supplier, actor *model.User) error
	UpdateSupplier(id uuid.UUID, req *model.Supplier, actor *model.User) (*model.Supplier, error)
	DeleteSupplier(id uuid.UUID, actor *model.User) (deactivated bool, err error)
	GetSupplier(id uuid.UUID) (*model.Supplier, error)
	GetSuppliers(activeOnly bool) ([]model.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) CreateSupplier(req *model.Supplier, actor *model.User) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	req.Rating = model.ClampRating(req.Rating)
	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()

	return s.supplierRepo.Create(req)
}

func (s *supplierService) UpdateSupplier(id uuid.UUID, req *model.Supplier, actor *model.User) (*model.Supplier, error) {
	existing, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, ErrSupplierNotFound
	}

	existing.Name = req.Name
	existing.ContactPerson = req.ContactPerson
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.CEP = req.CEP
	existing.Estado = req.Estado
	existing.Cidade = req.Cidade
	existing.Bairro = req.Bairro
	existing.Endereco = req.Endereco
	existing.Numero = req.Numero
	existing.Complemento = req.Complemento
	existing.CpfCnpj = req.CpfCnpj
	existing.InscricaoEstadual = req.InscricaoEstadual
	existing.Rating = model.ClampRating(req.Rating)
	existing.Categories = req.Categories
	existing.IsActive = req.IsActive
	existing.Notes = req.Notes
	existing.UpdatedBy = actor.ID.String()

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.supplierRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteSupplier removes a supplier, or deactivates it instead when
// ingredients still reference it so purchase history keeps resolving.
func (s *supplierService) DeleteSupplier(id uuid.UUID, actor *model.User) (bool, error) {
	if _, err := s.supplierRepo.FindByID(id); err != nil {
		return false, ErrSupplierNotFound
	}

	referenced, err := s.supplierRepo.CountIngredientsFor(id)
	if err != nil {
		return false, err
	}

	if referenced > 0 {
		return true, s.supplierRepo.Deactivate(id, actor.ID.String())
	}
	return false, s.supplierRepo.Delete(id)
}

func (s *supplierService) GetSupplier(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, ErrSupplierNotFound
	}
	return supplier, nil
}

func (s *supplierService) GetSuppliers(activeOnly bool) ([]model.Supplier, error) {
	return s.supplierRepo.FindAll(activeOnly)
}
