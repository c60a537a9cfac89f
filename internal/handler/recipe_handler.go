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

type RecipeHandler struct {
	service service.RecipeService
}

func NewRecipeHandler(s service.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: s}
}

// CreateRecipe handles recipe creation
// POST /api/v1/recipes
func (h *RecipeHandler) CreateRecipe(c *fiber.Ctx) error {
	var recipe model.Recipe
	if err := c.BodyParser(&recipe); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	created, err := h.service.CreateRecipe(&recipe, actor)
	if err != nil {
		if errors.Is(err, service.ErrCircularDependency) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Recipe created",
		"data":    created,
	})
}

// GetRecipes lists recipes with optional filters
// GET /api/v1/recipes?category=&difficulty=&search=&active_only=
func (h *RecipeHandler) GetRecipes(c *fiber.Ctx) error {
	filters := repository.RecipeFilters{
		Category:   model.RecipeCategory(c.Query("category")),
		Difficulty: model.RecipeDifficulty(c.Query("difficulty")),
		Search:     c.Query("search"),
		ActiveOnly: c.QueryBool("active_only", false),
	}

	recipes, err := h.service.GetRecipes(filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch recipes"})
	}
	return c.JSON(recipes)
}

// GetRecipe returns a single recipe with ordered instructions
// GET /api/v1/recipes/:id
func (h *RecipeHandler) GetRecipe(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid recipe ID"})
	}

	recipe, err := h.service.GetRecipe(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Recipe not found"})
	}
	return c.JSON(recipe)
}

// UpdateRecipe handles recipe update
// PUT /api/v1/recipes/:id
func (h *RecipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid recipe ID"})
	}

	var recipe model.Recipe
	if err := c.BodyParser(&recipe); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	updated, err := h.service.UpdateRecipe(id, &recipe, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrCircularDependency):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Recipe updated",
		"data":    updated,
	})
}

// DeleteRecipe handles recipe deletion
// DELETE /api/v1/recipes/:id
func (h *RecipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid recipe ID"})
	}

	if err := h.service.DeleteRecipe(id); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Recipe deleted"})
}

// CalculateCosts recomputes and returns the full cost breakdown
// POST /api/v1/recipes/:id/costs
func (h *RecipeHandler) CalculateCosts(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid recipe ID"})
	}

	breakdown, err := h.service.CalculateCosts(id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(breakdown)
}

// GetSettings returns the costing settings
// GET /api/v1/recipes/settings
func (h *RecipeHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetSettings()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch settings"})
	}
	return c.JSON(settings)
}

// UpdateSettings updates labor rate and margins
// PUT /api/v1/recipes/settings
func (h *RecipeHandler) UpdateSettings(c *fiber.Ctx) error {
	var req model.RecipeSettings
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	settings, err := h.service.UpdateSettings(&req, actor)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Settings updated",
		"data":    settings,
	})
}

// GetAnalytics returns catalog-level recipe statistics
// GET /api/v1/recipes/analytics
func (h *RecipeHandler) GetAnalytics(c *fiber.Ctx) error {
	analytics, err := h.service.GetAnalytics()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute analytics"})
	}
	return c.JSON(analytics)
}
