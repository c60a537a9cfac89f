package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"momentocake-admin/internal/handler"
	"momentocake-admin/internal/middleware"
	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
	"momentocake-admin/internal/service"
	"momentocake-admin/internal/ws"
	"momentocake-admin/pkg/database"
	"momentocake-admin/pkg/storage"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.User{},
		&model.Ingredient{},
		&model.StockHistory{},
		&model.PriceHistory{},
		&model.Supplier{},
		&model.Recipe{},
		&model.RecipeSettings{},
		&model.Client{},
		&model.ImageTag{},
		&model.GalleryImage{},
		&model.ImageFolder{},
	)

	// 3. Seed default admin and costing settings
	seedDefaults(db)

	// 4. Object storage for the gallery
	store, err := storage.NewObjectStore(context.Background())
	if err != nil {
		log.Fatalf("Failed to init object storage: %v", err)
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	ingredientRepo := repository.NewIngredientRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)
	clientRepo := repository.NewClientRepo(db)
	galleryRepo := repository.NewGalleryRepo(db)

	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo)
	invService := service.NewInventoryService(ingredientRepo, historyRepo, db, wsHub)
	supplierService := service.NewSupplierService(supplierRepo)
	recipeService := service.NewRecipeService(recipeRepo, ingredientRepo)
	clientService := service.NewClientService(clientRepo)
	galleryService := service.NewGalleryService(galleryRepo, store)
	dashService := service.NewDashboardService(ingredientRepo, historyRepo, clientRepo, recipeRepo, clientService)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	invHandler := handler.NewInventoryHandler(invService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	recipeHandler := handler.NewRecipeHandler(recipeService)
	clientHandler := handler.NewClientHandler(clientService)
	galleryHandler := handler.NewGalleryHandler(galleryService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Momento Cake Admin v1.0",
		BodyLimit: 12 * 1024 * 1024, // gallery uploads
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)
	auth.Get("/me", middleware.RequireAuth(userRepo), authHandler.Me)

	// Public gallery for the customer-facing site (no auth)
	api.Get("/public/gallery", galleryHandler.GetPublicFolders)
	api.Get("/public/gallery/:id", galleryHandler.GetPublicFolder)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats",
		middleware.RequireFeature(model.FeatureDashboard, model.ActionView), dashHandler.GetStats)
	protected.Get("/dashboard/stock-movement",
		middleware.RequireFeature(model.FeatureDashboard, model.ActionView), dashHandler.GetStockMovement)

	// Ingredients + stock
	ingredients := protected.Group("/ingredients")
	ingredients.Get("/",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionView), invHandler.GetIngredients)
	ingredients.Get("/alerts",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionView), invHandler.GetLowStockAlerts)
	ingredients.Get("/:id",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionView), invHandler.GetIngredient)
	ingredients.Post("/",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionCreate), invHandler.CreateIngredient)
	ingredients.Put("/:id",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionUpdate), invHandler.UpdateIngredient)
	ingredients.Delete("/:id",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionDelete), invHandler.DeleteIngredient)
	ingredients.Post("/:id/stock",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionUpdate), invHandler.RecordStockMovement)
	ingredients.Get("/:id/stock-history",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionView), invHandler.GetStockHistory)
	ingredients.Get("/:id/price-history",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionView), invHandler.GetPriceHistory)

	// Suppliers live under the ingredients feature
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionView), supplierHandler.GetSuppliers)
	suppliers.Get("/:id",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionView), supplierHandler.GetSupplier)
	suppliers.Post("/",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionCreate), supplierHandler.CreateSupplier)
	suppliers.Put("/:id",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionUpdate), supplierHandler.UpdateSupplier)
	suppliers.Delete("/:id",
		middleware.RequireFeature(model.FeatureIngredients, model.ActionDelete), supplierHandler.DeleteSupplier)

	// Recipes + costing. Settings routes come before :id so "settings"
	// never parses as a recipe ID.
	recipes := protected.Group("/recipes")
	recipes.Get("/settings",
		middleware.RequireFeature(model.FeatureSettings, model.ActionView), recipeHandler.GetSettings)
	recipes.Put("/settings",
		middleware.RequireFeature(model.FeatureSettings, model.ActionUpdate), recipeHandler.UpdateSettings)
	recipes.Get("/analytics",
		middleware.RequireFeature(model.FeatureRecipes, model.ActionView), recipeHandler.GetAnalytics)
	recipes.Get("/",
		middleware.RequireFeature(model.FeatureRecipes, model.ActionView), recipeHandler.GetRecipes)
	recipes.Get("/:id",
		middleware.RequireFeature(model.FeatureRecipes, model.ActionView), recipeHandler.GetRecipe)
	recipes.Post("/",
		middleware.RequireFeature(model.FeatureRecipes, model.ActionCreate), recipeHandler.CreateRecipe)
	recipes.Put("/:id",
		middleware.RequireFeature(model.FeatureRecipes, model.ActionUpdate), recipeHandler.UpdateRecipe)
	recipes.Delete("/:id",
		middleware.RequireFeature(model.FeatureRecipes, model.ActionDelete), recipeHandler.DeleteRecipe)
	recipes.Post("/:id/costs",
		middleware.RequireFeature(model.FeatureRecipes, model.ActionView), recipeHandler.CalculateCosts)

	// Clients
	clients := protected.Group("/clients")
	clients.Get("/upcoming-dates",
		middleware.RequireFeature(model.FeatureClients, model.ActionView), clientHandler.GetUpcomingDates)
	clients.Get("/",
		middleware.RequireFeature(model.FeatureClients, model.ActionView), clientHandler.GetClients)
	clients.Get("/:id",
		middleware.RequireFeature(model.FeatureClients, model.ActionView), clientHandler.GetClient)
	clients.Post("/",
		middleware.RequireFeature(model.FeatureClients, model.ActionCreate), clientHandler.CreateClient)
	clients.Put("/:id",
		middleware.RequireFeature(model.FeatureClients, model.ActionUpdate), clientHandler.UpdateClient)
	clients.Delete("/:id",
		middleware.RequireFeature(model.FeatureClients, model.ActionDelete), clientHandler.DeleteClient)

	// User management (admin only by permission resolution)
	users := protected.Group("/users")
	users.Get("/",
		middleware.RequireFeature(model.FeatureUsers, model.ActionView), userHandler.GetUsers)
	users.Get("/:id",
		middleware.RequireFeature(model.FeatureUsers, model.ActionView), userHandler.GetUser)
	users.Post("/",
		middleware.RequireFeature(model.FeatureUsers, model.ActionCreate), userHandler.CreateUser)
	users.Put("/:id",
		middleware.RequireFeature(model.FeatureUsers, model.ActionUpdate), userHandler.UpdateUser)
	users.Delete("/:id",
		middleware.RequireFeature(model.FeatureUsers, model.ActionDelete), userHandler.DeleteUser)
	users.Put("/:id/permissions",
		middleware.RequireFeature(model.FeatureUsers, model.ActionUpdate), userHandler.UpdateUserPermissions)

	// Gallery management has no feature key of its own; admin only
	gallery := protected.Group("/gallery", middleware.RequireAdmin())
	gallery.Post("/images", galleryHandler.UploadImage)
	gallery.Get("/images", galleryHandler.GetImages)
	gallery.Get("/images/:id", galleryHandler.GetImage)
	gallery.Put("/images/:id", galleryHandler.UpdateImage)
	gallery.Delete("/images/:id", galleryHandler.DeleteImage)
	gallery.Post("/tags", galleryHandler.CreateTag)
	gallery.Get("/tags", galleryHandler.GetTags)
	gallery.Put("/tags/:id", galleryHandler.UpdateTag)
	gallery.Delete("/tags/:id", galleryHandler.DeleteTag)
	gallery.Post("/folders", galleryHandler.CreateFolder)
	gallery.Get("/folders", galleryHandler.GetFolders)
	gallery.Get("/folders/:id", galleryHandler.GetFolder)
	gallery.Put("/folders/:id", galleryHandler.UpdateFolder)
	gallery.Delete("/folders/:id", galleryHandler.DeleteFolder)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates the first admin user and the default costing
// settings when the database is empty.
func seedDefaults(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)

	if err := recipeRepo.SeedDefaultSettings(); err != nil {
		log.Printf("Warning: Failed to seed recipe settings: %v", err)
	}

	admins, err := userRepo.CountAdmins()
	if err != nil || admins > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@momentocake.com.br"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:       email,
		DisplayName: "Administrador",
		Role:        model.RoleAdmin,
		IsActive:    true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Printf("✅ Admin user created: %s", email)
}
