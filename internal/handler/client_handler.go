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

type ClientHandler struct {
	service service.ClientService
}

func NewClientHandler(s service.ClientService) *ClientHandler {
	return &ClientHandler{service: s}
}

// CreateClient handles client creation
// POST /api/v1/clients
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var client model.Client
	if err := c.BodyParser(&client); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.service.CreateClient(&client, actor); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Client created",
		"data":    client,
	})
}

// GetClients lists clients with optional filters
// GET /api/v1/clients?type=&search=&tag=&active_only=
func (h *ClientHandler) GetClients(c *fiber.Ctx) error {
	filters := repository.ClientFilters{
		Type:       model.ClientType(c.Query("type")),
		Search:     c.Query("search"),
		Tag:        c.Query("tag"),
		ActiveOnly: c.QueryBool("active_only", false),
	}

	clients, err := h.service.GetClients(filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch clients"})
	}
	return c.JSON(clients)
}

// GetClient returns a single client
// GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	client, err := h.service.GetClient(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Client not found"})
	}
	return c.JSON(client)
}

// UpdateClient handles client update
// PUT /api/v1/clients/:id
func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	var client model.Client
	if err := c.BodyParser(&client); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	updated, err := h.service.UpdateClient(id, &client, actor)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Client updated",
		"data":    updated,
	})
}

// DeleteClient handles client deletion
// DELETE /api/v1/clients/:id
func (h *ClientHandler) DeleteClient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}

	if err := h.service.DeleteClient(id); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Client deleted"})
}

// GetUpcomingDates lists special dates inside the lookahead window
// GET /api/v1/clients/upcoming-dates?days=30
func (h *ClientHandler) GetUpcomingDates(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	upcoming, err := h.service.GetUpcomingDates(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch upcoming dates"})
	}
	return c.JSON(upcoming)
}
