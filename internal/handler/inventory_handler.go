package handler

import (
	"errors"

	"momentocake-admin/internal/middleware"
	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
	"momentocake-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// CreateIngredient handles ingredient creation
// POST /api/v1/ingredients
func (h *InventoryHandler) CreateIngredient(c *fiber.Ctx) error {
	var ingredient model.Ingredient
	if err := c.BodyParser(&ingredient); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.service.CreateIngredient(&ingredient, actor); err != nil {
		if errors.Is(err, service.ErrIngredientExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Ingredient created",
		"data":    ingredient.ToResponse(),
	})
}

// GetIngredients lists ingredients with optional filters
// GET /api/v1/ingredients?category=&supplier_id=&stock_status=&search=
func (h *InventoryHandler) GetIngredients(c *fiber.Ctx) error {
	filters := repository.IngredientFilters{
		Category:    model.IngredientCategory(c.Query("category")),
		StockStatus: model.StockStatus(c.Query("stock_status")),
		Search:      c.Query("search"),
	}
	if raw := c.Query("supplier_id"); raw != "" {
		supplierID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
		}
		filters.SupplierID = &supplierID
	}

	ingredients, err := h.service.GetIngredients(filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch ingredients"})
	}
	return c.JSON(ingredients)
}

// GetIngredient returns a single ingredient with derived stock fields
// GET /api/v1/ingredients/:id
func (h *InventoryHandler) GetIngredient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ingredient ID"})
	}

	ingredient, err := h.service.GetIngredient(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Ingredient not found"})
	}
	return c.JSON(ingredient)
}

// UpdateIngredient handles ingredient update
// PUT /api/v1/ingredients/:id
func (h *InventoryHandler) UpdateIngredient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ingredient ID"})
	}

	var ingredient model.Ingredient
	if err := c.BodyParser(&ingredient); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	updated, err := h.service.UpdateIngredient(id, &ingredient, actor)
	if err != nil {
		if errors.Is(err, service.ErrIngredientNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Ingredient updated",
		"data":    updated.ToResponse(),
	})
}

// DeleteIngredient handles ingredient deletion
// DELETE /api/v1/ingredients/:id
func (h *InventoryHandler) DeleteIngredient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ingredient ID"})
	}

	if err := h.service.DeleteIngredient(id); err != nil {
		if errors.Is(err, service.ErrIngredientNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Ingredient deleted"})
}

// GetLowStockAlerts returns ingredients below minimum stock, worst first
// GET /api/v1/ingredients/alerts
func (h *InventoryHandler) GetLowStockAlerts(c *fiber.Ctx) error {
	alerts, err := h.service.GetLowStockAlerts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch alerts"})
	}
	return c.JSON(alerts)
}

// RecordStockMovement applies a stock mutation
// POST /api/v1/ingredients/:id/stock
func (h *InventoryHandler) RecordStockMovement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ingredient ID"})
	}

	var req service.StockMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.IngredientID = id

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	updated, err := h.service.RecordStockMovement(&req, actor)
	if err != nil {
		if errors.Is(err, service.ErrIngredientNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, service.ErrInvalidQuantity) {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Stock movement recorded",
		"data":    updated,
	})
}

// GetStockHistory lists stock movements for an ingredient, newest first
// GET /api/v1/ingredients/:id/stock-history
func (h *InventoryHandler) GetStockHistory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ingredient ID"})
	}

	history, err := h.service.GetStockHistory(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock history"})
	}
	return c.JSON(history)
}

// GetPriceHistory lists recorded purchase prices, newest first
// GET /api/v1/ingredients/:id/price-history
func (h *InventoryHandler) GetPriceHistory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid ingredient ID"})
	}

	history, err := h.service.GetPriceHistory(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch price history"})
	}
	return c.JSON(history)
}
