package routes

import (
	"storepanel/internal/api/handlers"
	"storepanel/internal/api/middleware"
	"storepanel/internal/config"
	"storepanel/internal/models"
	"storepanel/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	adminService := services.NewAdminService(db, authService)
	productService := services.NewProductService(db)
	metricsService := services.NewMetricsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	adminHandler := handlers.NewAdminHandler(adminService)
	productHandler := handlers.NewProductHandler(productService)
	metricsHandler := handlers.NewMetricsHandler(metricsService)

	// Middleware
	r.Use(middleware.CORSMiddleware())

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "Storepanel API is running",
			})
		})

		api.POST("/auth/login", authHandler.Login)

		// Bootstrap-aware: with an empty store this creates the first
		// super admin without a session, otherwise the service requires
		// an authenticated super admin.
		api.POST("/admins", middleware.OptionalAuthMiddleware(authService), adminHandler.CreateAdmin)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		// Auth routes (protected)
		protected.GET("/auth/me", authHandler.GetMe)
		protected.POST("/auth/logout", authHandler.Logout)
		protected.PATCH("/auth/profile", adminHandler.UpdateProfile)
		protected.PATCH("/auth/password", adminHandler.UpdatePassword)

		// Admin management routes (super admin enforced in the service)
		protected.GET("/admins", adminHandler.ListAdmins)
		protected.DELETE("/admins/:id", adminHandler.DeleteAdmin)

		// Catalog routes
		products := protected.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		// Metrics routes
		metrics := protected.Group("/metrics")
		{
			metrics.GET("/sales", metricsHandler.GetSalesMetrics)
			metrics.GET("/stock", metricsHandler.GetStockMetrics)
			metrics.GET("/products/:id", metricsHandler.GetProductPerformance)
			metrics.POST("/sample-data", middleware.RequireRole(models.RoleSuperAdmin), metricsHandler.CreateSampleData)
		}
	}
}
