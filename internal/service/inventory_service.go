package service

import (
	"errors"
	"fmt"

	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
	"momentocake-admin/internal/ws"
	"momentocake-admin/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("ingredient with this name already exists")
	ErrInvalidQuantity    = errors.New("movement quantity must be positive")
)

type InventoryService interface {
	CreateIngredient(req *model.Ingredient, actor *model.User) error
	UpdateIngredient(id uuid.UUID, req *model.Ingredient, actor *model.User) (*model.Ingredient, error)
	DeleteIngredient(id uuid.UUID) error
	GetIngredient(id uuid.UUID) (*model.IngredientResponse, error)
	GetIngredients(filters repository.IngredientFilters) ([]model.IngredientResponse, error)
	GetLowStockAlerts() ([]model.IngredientResponse, error)

	RecordStockMovement(req *StockMovementRequest, actor *model.User) (*model.IngredientResponse, error)
	GetStockHistory(ingredientID uuid.UUID) ([]model.StockHistory, error)
	GetPriceHistory(ingredientID uuid.UUID) ([]model.PriceHistory, error)
}

// StockMovementRequest mutates an ingredient's stock. For purchases a
// price may be supplied, which refreshes the ingredient's current price
// and appends a price-history entry.
type StockMovementRequest struct {
	IngredientID uuid.UUID               `json:"ingredient_id" validate:"uuid_required"`
	Type         model.StockMovementType `json:"type" validate:"required,oneof=purchase usage waste adjustment correction"`
	Quantity     float64                 `json:"quantity" validate:"required"`
	Price        *float64                `json:"price,omitempty" validate:"omitempty,gt=0"`
	SupplierID   *uuid.UUID              `json:"supplier_id,omitempty"`
	Reason       string                  `json:"reason,omitempty"`
}

type inventoryService struct {
	ingredientRepo repository.IngredientRepository
	historyRepo    repository.HistoryRepository
	db             *gorm.DB
	wsHub          *ws.Hub
}

func NewInventoryService(iRepo repository.IngredientRepository, hRepo repository.HistoryRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		ingredientRepo: iRepo,
		historyRepo:    hRepo,
		db:             db,
		wsHub:          hub,
	}
}

func (s *inventoryService) CreateIngredient(req *model.Ingredient, actor *model.User) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.ingredientRepo.FindByName(req.Name)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrIngredientExists
	}

	if req.Category == "" {
		req.Category = model.CategoryOther
	}
	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()

	return s.ingredientRepo.Create(req)
}

func (s *inventoryService) UpdateIngredient(id uuid.UUID, req *model.Ingredient, actor *model.User) (*model.Ingredient, error) {
	existing, err := s.ingredientRepo.FindByID(id)
	if err != nil {
		return nil, ErrIngredientNotFound
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Brand = req.Brand
	existing.Unit = req.Unit
	existing.MeasurementValue = req.MeasurementValue
	existing.CurrentPrice = req.CurrentPrice
	existing.MinStock = req.MinStock
	existing.Category = req.Category
	existing.Allergens = req.Allergens
	existing.SupplierID = req.SupplierID
	existing.IsActive = req.IsActive
	existing.UpdatedBy = actor.ID.String()

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.ingredientRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *inventoryService) DeleteIngredient(id uuid.UUID) error {
	if _, err := s.ingredientRepo.FindByID(id); err != nil {
		return ErrIngredientNotFound
	}
	return s.ingredientRepo.Delete(id)
}

func (s *inventoryService) GetIngredient(id uuid.UUID) (*model.IngredientResponse, error) {
	ingredient, err := s.ingredientRepo.FindByID(id)
	if err != nil {
		return nil, ErrIngredientNotFound
	}
	resp := ingredient.ToResponse()
	return &resp, nil
}

func (s *inventoryService) GetIngredients(filters repository.IngredientFilters) ([]model.IngredientResponse, error) {
	ingredients, err := s.ingredientRepo.FindAll(filters)
	if err != nil {
		return nil, err
	}
	responses := make([]model.IngredientResponse, len(ingredients))
	for i := range ingredients {
		responses[i] = ingredients[i].ToResponse()
	}
	return responses, nil
}

// GetLowStockAlerts returns ingredients whose status is low, critical or
// out, ordered worst first.
func (s *inventoryService) GetLowStockAlerts() ([]model.IngredientResponse, error) {
	ingredients, err := s.ingredientRepo.FindAll(repository.IngredientFilters{})
	if err != nil {
		return nil, err
	}

	var alerts []model.IngredientResponse
	for _, status := range []model.StockStatus{model.StockOut, model.StockCritical, model.StockLow} {
		for i := range ingredients {
			if !ingredients[i].IsActive {
				continue
			}
			if ingredients[i].StockStatus() == status {
				alerts = append(alerts, ingredients[i].ToResponse())
			}
		}
	}

	return alerts, nil
}

// RecordStockMovement applies a typed stock mutation atomically: the
// ingredient row is locked, the new level computed (clamped at zero), the
// history entry written, and for priced purchases the current price and
// price history updated in the same transaction.
func (s *inventoryService) RecordStockMovement(req *StockMovementRequest, actor *model.User) (*model.IngredientResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// Direction is carried by the movement type; only adjustments and
	// corrections accept a signed quantity.
	if !req.Type.Signed() && req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result model.IngredientResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ingredient model.Ingredient
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&ingredient, "id = ?", req.IngredientID).Error; err != nil {
			return ErrIngredientNotFound
		}

		previousStatus := ingredient.StockStatus()
		previousStock := ingredient.CurrentStock
		newStock := model.ApplyMovement(previousStock, req.Type, req.Quantity)

		if err := s.ingredientRepo.UpdateStock(tx, ingredient.ID, newStock, actor.ID.String()); err != nil {
			return err
		}

		entry := &model.StockHistory{
			IngredientID:  ingredient.ID,
			Type:          req.Type,
			Quantity:      req.Quantity,
			PreviousStock: previousStock,
			NewStock:      newStock,
			Reason:        req.Reason,
		}
		entry.CreatedBy = actor.ID.String()
		entry.UpdatedBy = actor.ID.String()
		if err := s.historyRepo.CreateStockEntry(tx, entry); err != nil {
			return err
		}

		if req.Type == model.MovementPurchase && req.Price != nil {
			if err := s.recordPurchasePrice(tx, &ingredient, req, actor); err != nil {
				return err
			}
			ingredient.CurrentPrice = *req.Price
		}

		ingredient.CurrentStock = newStock
		result = ingredient.ToResponse()

		s.broadcastStockUpdate(&ingredient, req, previousStatus, actor)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &result, nil
}

// recordPurchasePrice refreshes the ingredient price and appends a price
// history entry carrying the percentage change against the previous one.
func (s *inventoryService) recordPurchasePrice(tx *gorm.DB, ingredient *model.Ingredient, req *StockMovementRequest, actor *model.User) error {
	var change *float64
	if prev, err := s.historyRepo.LatestPriceFor(ingredient.ID); err == nil && prev.Price > 0 {
		pct := (*req.Price - prev.Price) / prev.Price * 100
		change = &pct
	} else if ingredient.CurrentPrice > 0 {
		pct := (*req.Price - ingredient.CurrentPrice) / ingredient.CurrentPrice * 100
		change = &pct
	}

	entry := &model.PriceHistory{
		IngredientID:     ingredient.ID,
		SupplierID:       req.SupplierID,
		Price:            *req.Price,
		Quantity:         req.Quantity,
		ChangePercentage: change,
		Notes:            req.Reason,
	}
	entry.CreatedBy = actor.ID.String()
	entry.UpdatedBy = actor.ID.String()
	if err := s.historyRepo.CreatePriceEntry(tx, entry); err != nil {
		return err
	}

	return s.ingredientRepo.UpdatePrice(tx, ingredient.ID, *req.Price, actor.ID.String())
}

func (s *inventoryService) broadcastStockUpdate(ingredient *model.Ingredient, req *StockMovementRequest, previousStatus model.StockStatus, actor *model.User) {
	newStatus := model.ResolveStockStatus(ingredient.CurrentStock, ingredient.MinStock)

	eventType := "stock_update"
	degraded := newStatus != previousStatus &&
		(newStatus == model.StockCritical || newStatus == model.StockOut)
	if degraded {
		eventType = "low_stock_alert"
	}

	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   eventType,
		"action": "stock_movement",
		"ingredient": map[string]interface{}{
			"id":           ingredient.ID,
			"name":         ingredient.Name,
			"new_stock":    ingredient.CurrentStock,
			"min_stock":    ingredient.MinStock,
			"stock_status": newStatus,
			"label":        newStatus.Label(),
		},
		"movement": map[string]interface{}{
			"type":     req.Type,
			"quantity": req.Quantity,
		},
		"user": map[string]interface{}{
			"id":   actor.ID,
			"name": actor.DisplayName,
		},
		"message": fmt.Sprintf("%s recorded %s of %.2f for '%s'", actor.DisplayName, req.Type, req.Quantity, ingredient.Name),
	})
}

func (s *inventoryService) GetStockHistory(ingredientID uuid.UUID) ([]model.StockHistory, error) {
	return s.historyRepo.StockHistoryFor(ingredientID)
}

func (s *inventoryService) GetPriceHistory(ingredientID uuid.UUID) ([]model.PriceHistory, error) {
	return s.historyRepo.PriceHistoryFor(ingredientID)
}
