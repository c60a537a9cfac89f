package handler

import (
	"errors"

	"momentocake-admin/internal/middleware"
	"momentocake-admin/internal/model"
	"momentocake-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

// CreateSupplier handles supplier creation
// POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.service.CreateSupplier(&supplier, actor); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Supplier created",
		"data":    supplier,
	})
}

// GetSuppliers lists suppliers
// GET /api/v1/suppliers?active_only=true
func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active_only", false)

	suppliers, err := h.service.GetSuppliers(activeOnly)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch suppliers"})
	}
	return c.JSON(suppliers)
}

// GetSupplier returns a single supplier
// GET /api/v1/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}

	supplier, err := h.service.GetSupplier(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Supplier not found"})
	}
	return c.JSON(supplier)
}

// UpdateSupplier handles supplier update
// PUT /api/v1/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}

	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	updated, err := h.service.UpdateSupplier(id, &supplier, actor)
	if err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Supplier updated",
		"data":    updated,
	})
}

// DeleteSupplier removes or deactivates a supplier. Suppliers still
// referenced by ingredients are deactivated so history keeps resolving.
// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	deactivated, err := h.service.DeleteSupplier(id, actor)
	if err != nil {
		if errors.Is(err, service.ErrSupplierNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	if deactivated {
		return c.JSON(fiber.Map{
			"message":     "Supplier is referenced by ingredients and was deactivated instead of deleted",
			"deactivated": true,
		})
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted", "deactivated": false})
}
