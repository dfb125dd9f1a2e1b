package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"internship-registry-server/config"
	"internship-registry-server/database"
	"internship-registry-server/jobs"
	"internship-registry-server/middleware"
	"internship-registry-server/routes"
	ws "internship-registry-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Seed the first admin account on demand
	if os.Getenv("SEED_ADMIN") == "true" {
		if err := seedAdmin(); err != nil {
			log.Fatal("Failed to seed admin account:", err)
		}
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Input validation
	router.Use(middleware.InputValidationMiddleware())

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "User-Agent", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	// Audit logging
	router.Use(middleware.AuditLogMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Internship Registry Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Websocket hub for live message notifications
	hub := ws.NewHub()
	go hub.Run()
	routes.SetHub(hub)

	// Public and user-facing routes
	routes.RegisterAuthRoutes(router)
	routes.RegisterCompanyRoutes(router)
	routes.RegisterRatingRoutes(router)
	routes.RegisterReactionRoutes(router)
	routes.RegisterMessageRoutes(router)
	routes.RegisterKeyRoutes(router)

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(routes.AdminAuthMiddleware())
	{
		routes.RegisterAdminRoutes(admin)
		routes.RegisterAdminCompanyRoutes(admin)
		routes.RegisterAdminRatingRoutes(admin)
		routes.RegisterAdminMessageRoutes(admin)
	}

	// Background token cleanup
	cleanupJob := jobs.NewCleanupJob()
	cleanupJob.Start()
	defer cleanupJob.Stop()

	// Start server
	port := config.AppConfig.Server.Port
	log.Printf("🚀 Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// allowedOrigins reads the CORS whitelist from the environment, falling back
// to the local development origins.
func allowedOrigins() []string {
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		return splitAndTrim(origins)
	}
	return []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:8081",
	}
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
