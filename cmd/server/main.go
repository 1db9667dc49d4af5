package main

import (
	"fmt"
	"log"

	"storepanel/internal/api/routes"
	"storepanel/internal/config"
	"storepanel/internal/models"
	"storepanel/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := models.OpenDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Create the bootstrap super admin if the store is empty
	authService := services.NewAuthService(db, cfg)
	adminService := services.NewAdminService(db, authService)
	if err := adminService.EnsureBootstrapAdmin(cfg); err != nil {
		log.Printf("Warning: Failed to create bootstrap admin: %v", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// Setup routes
	routes.SetupRoutes(r, db, cfg)

	// Run server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting Storepanel server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
