// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/chemist-backend/internal/apperror"
	"github.com/javajoker/chemist-backend/internal/config"
	"github.com/javajoker/chemist-backend/internal/handlers"
	"github.com/javajoker/chemist-backend/internal/middleware"
	"github.com/javajoker/chemist-backend/internal/repository"
	"github.com/javajoker/chemist-backend/internal/services"
	"github.com/javajoker/chemist-backend/internal/utils"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Store    *repository.Store
	Archiver services.ReportArchiver
	Clock    services.Clock

	// RateLimiter is optional; its owner calls Stop.
	RateLimiter *middleware.RateLimiter
}

func Initialize(cfg *config.Config, deps Dependencies) *gin.Engine {
	// Initialize services
	medicineService := services.NewMedicineService(deps.Store, cfg.Inventory, deps.Clock)
	inventoryService := services.NewInventoryService(deps.Store, cfg.Inventory, deps.Clock, deps.Archiver)
	categoryService := services.NewCategoryService(deps.Store.Categories)
	manufacturerService := services.NewManufacturerService(deps.Store.Manufacturers)

	// Initialize handlers
	medicineHandler := handlers.NewMedicineHandler(medicineService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	manufacturerHandler := handlers.NewManufacturerHandler(manufacturerService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware())
	}

	r.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, apperror.CodeNotFound, "Resource not found", nil)
	})

	// Writes are guarded only when token auth is enabled.
	var write gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.JWT.Enabled {
		write = middleware.AuthRequired(utils.NewJWTManager(cfg.JWT.SecretKey))
	}

	// Health check
	r.GET("/health", handlers.HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/stats", inventoryHandler.GetStats)

		// Medicine routes
		medicines := api.Group("/medicines")
		{
			medicines.GET("", medicineHandler.GetMedicines)
			medicines.GET("/low-stock", medicineHandler.GetLowStock)
			medicines.GET("/alerts", inventoryHandler.GetAlerts)
			medicines.GET("/reports/inventory", inventoryHandler.GetInventoryReport)
			if deps.Archiver != nil {
				medicines.POST("/reports/inventory/archive", write, inventoryHandler.ArchiveInventoryReport)
			}
			medicines.GET("/:id", medicineHandler.GetMedicine)

			medicines.POST("", write, medicineHandler.CreateMedicine)
			medicines.PUT("/:id", write, medicineHandler.UpdateMedicine)
			medicines.DELETE("/:id", write, medicineHandler.DeleteMedicine)
			medicines.PATCH("/:id/quantity", write, medicineHandler.UpdateQuantity)
		}

		// Category routes
		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.GET("/:id/medicines", medicineHandler.GetCategoryMedicines)

			categories.POST("", write, categoryHandler.CreateCategory)
			categories.PUT("/:id", write, categoryHandler.UpdateCategory)
			categories.DELETE("/:id", write, categoryHandler.DeleteCategory)
		}

		// Manufacturer routes
		manufacturers := api.Group("/manufacturers")
		{
			manufacturers.GET("", manufacturerHandler.GetManufacturers)
			manufacturers.GET("/:id", manufacturerHandler.GetManufacturer)

			manufacturers.POST("", write, manufacturerHandler.CreateManufacturer)
			manufacturers.PUT("/:id", write, manufacturerHandler.UpdateManufacturer)
			manufacturers.DELETE("/:id", write, manufacturerHandler.DeleteManufacturer)
		}
	}

	return r
}
