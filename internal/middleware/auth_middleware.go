package middleware

import (
	"strings"

	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
	"momentocake-admin/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token, enforces single-session token
// versions against the database and stores the loaded user in the request
// context for downstream permission checks.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
		}

		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		c.Locals("user", user)
		c.Locals("user_id", user.ID.String())
		c.Locals("user_email", user.Email)
		c.Locals("user_name", user.DisplayName)

		return c.Next()
	}
}

// RequireFeature checks that the authenticated user may perform action
// within feature, per the permission resolver (admin short-circuit, custom
// override, role default — in that order).
func RequireFeature(feature model.Feature, action model.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*model.User)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No authenticated user"})
		}

		if !user.IsFeatureEnabled(feature) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: feature '" + string(feature) + "' is not enabled for this user",
			})
		}

		if !user.CanPerform(feature, action) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires '" + string(action) + "' on '" + string(feature) + "'",
			})
		}

		return c.Next()
	}
}

// RequireAdmin restricts a route to admin users. Used for surfaces that
// have no feature key of their own, like gallery management.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*model.User)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No authenticated user"})
		}
		if user.Role != model.RoleAdmin {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden: admin role required"})
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals("user").(*model.User)
	return user
}
