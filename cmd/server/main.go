package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localstore/storeapi/internal/config"
	"github.com/localstore/storeapi/internal/database"
	"github.com/localstore/storeapi/internal/handlers"
	"github.com/localstore/storeapi/internal/middleware"
	"github.com/localstore/storeapi/internal/services"
	"github.com/localstore/storeapi/internal/storage"
	"github.com/localstore/storeapi/internal/types"

	_ "github.com/localstore/storeapi/docs/api" // Swagger docs
)

// @title Store API
// @version 1.0.0
// @description Online store catalog service with dynamic queries and relationship-consistent writes
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localstore/storeapi

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations and seed enumerated roles
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.SeedRoles(db); err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}

	// Open the blob store
	blobs, err := storage.NewStore(cfg.BlobDir)
	if err != nil {
		log.Fatalf("Failed to open blob store: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("storeapi")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	categoryHandler := &handlers.CategoryHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db}
	featureHandler := &handlers.FeatureHandler{DB: db}
	resourceHandler := &handlers.ResourceHandler{DB: db, Blobs: blobs}
	userHandler := &handlers.UserHandler{DB: db}

	// Catalog reads are public
	api.Get("/categories", categoryHandler.ListCategories)
	api.Get("/categories/tree", categoryHandler.CategoryTree)
	api.Get("/categories/:id", categoryHandler.GetCategory)
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/features", featureHandler.ListFeatures)
	api.Get("/features/:id", featureHandler.GetFeature)
	api.Get("/images/:id", resourceHandler.GetImage)
	api.Get("/images/:id/content", resourceHandler.DownloadImage)
	api.Get("/files/:id", resourceHandler.GetFile)
	api.Get("/files/:id/content", resourceHandler.DownloadFile)

	// Catalog writes are admin-only
	api.Post("/categories", middleware.AuthAdmin(cfg), categoryHandler.CreateCategory)
	api.Put("/categories/:id", middleware.AuthAdmin(cfg), categoryHandler.ModifyCategory)
	api.Delete("/categories/:id", middleware.AuthAdmin(cfg), categoryHandler.DeleteCategory)
	api.Post("/categories/:id/products/:productId", middleware.AuthAdmin(cfg), categoryHandler.AddProduct)
	api.Delete("/categories/:id/products/:productId", middleware.AuthAdmin(cfg), categoryHandler.RemoveProduct)

	api.Post("/products", middleware.AuthAdmin(cfg), productHandler.CreateProduct)
	api.Put("/products/:id", middleware.AuthAdmin(cfg), productHandler.ModifyProduct)
	api.Delete("/products/:id", middleware.AuthAdmin(cfg), productHandler.DeleteProduct)
	api.Post("/products/:id/feature-keys/:keyId", middleware.AuthAdmin(cfg), productHandler.AddFeatureKey)
	api.Delete("/products/:id/feature-keys/:keyId", middleware.AuthAdmin(cfg), productHandler.RemoveFeatureKey)
	api.Post("/products/:id/images/:imageId", middleware.AuthAdmin(cfg), productHandler.AddImage)
	api.Delete("/products/:id/images/:imageId", middleware.AuthAdmin(cfg), productHandler.RemoveImage)
	api.Post("/products/:id/files/:fileId", middleware.AuthAdmin(cfg), productHandler.AddFile)
	api.Delete("/products/:id/files/:fileId", middleware.AuthAdmin(cfg), productHandler.RemoveFile)

	api.Post("/features", middleware.AuthAdmin(cfg), featureHandler.CreateFeature)
	api.Put("/features/:id", middleware.AuthAdmin(cfg), featureHandler.ModifyFeature)
	api.Delete("/features/:id", middleware.AuthAdmin(cfg), featureHandler.DeleteFeature)
	api.Post("/features/:id/keys", middleware.AuthAdmin(cfg), featureHandler.CreateFeatureKey)
	api.Put("/features/:id/keys/:keyId", middleware.AuthAdmin(cfg), featureHandler.ModifyFeatureKey)
	api.Delete("/features/keys/:keyId", middleware.AuthAdmin(cfg), featureHandler.DeleteFeatureKey)

	api.Post("/images", middleware.AuthAdmin(cfg), resourceHandler.UploadImage)
	api.Delete("/images/:id", middleware.AuthAdmin(cfg), resourceHandler.DeleteImage)
	api.Post("/files", middleware.AuthAdmin(cfg), resourceHandler.UploadFile)
	api.Delete("/files/:id", middleware.AuthAdmin(cfg), resourceHandler.DeleteFile)

	// User routes: registration is public, account management needs a
	// user session, user administration needs admin
	api.Post("/users", userHandler.Register)
	api.Get("/users", middleware.AuthAdmin(cfg), userHandler.ListUsers)
	api.Get("/users/:id", middleware.AuthUser(cfg), userHandler.GetUser)
	api.Put("/users/:id", middleware.AuthUser(cfg), userHandler.ModifyUser)
	api.Delete("/users/:id", middleware.AuthAdmin(cfg), userHandler.DeleteUser)
	api.Post("/users/:id/roles", middleware.AuthAdmin(cfg), userHandler.AddRole)
	api.Delete("/users/:id/roles", middleware.AuthAdmin(cfg), userHandler.RemoveRole)

	api.Get("/users/:id/favourites", middleware.AuthUser(cfg), userHandler.ListFavourites)
	api.Post("/users/:id/favourites/:productId", middleware.AuthUser(cfg), userHandler.AddFavourite)
	api.Delete("/users/:id/favourites/:productId", middleware.AuthUser(cfg), userHandler.RemoveFavourite)

	api.Get("/users/:id/cards", middleware.AuthUser(cfg), userHandler.ListCards)
	api.Post("/users/:id/cards", middleware.AuthUser(cfg), userHandler.AddCard)
	api.Put("/cards/:cardId", middleware.AuthUser(cfg), userHandler.ModifyCard)
	api.Delete("/cards/:cardId", middleware.AuthUser(cfg), userHandler.RemoveCard)

	api.Get("/users/:id/orders", middleware.AuthUser(cfg), userHandler.ListOrders)
	api.Post("/users/:id/orders", middleware.AuthUser(cfg), userHandler.CreateOrder)
	api.Get("/orders/:orderId", middleware.AuthUser(cfg), userHandler.GetOrder)
	api.Delete("/orders/:orderId", middleware.AuthUser(cfg), userHandler.DeleteOrder)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	log.Printf("Authorizer will be initialized on first authenticated request")

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
