// main.go
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/taskora/taskora-backend/internal/api/handlers"
	"github.com/taskora/taskora-backend/internal/api/middleware"
	"github.com/taskora/taskora-backend/internal/config"
	"github.com/taskora/taskora-backend/internal/cron"
	"github.com/taskora/taskora-backend/internal/db"
	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/seed"
	"github.com/taskora/taskora-backend/internal/service"
	"github.com/taskora/taskora-backend/internal/socket"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations
	// ============================================
	log.Println("🔄 Running database migrations...")
	if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL (pgxpool + sql.DB)
	// ============================================
	pgDB, err := db.NewPostgresDB(cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		log.Fatalf("❌ Failed to create pgx pool: %v", err)
	}
	defer pgDB.Close()

	// sqlx-backed analytics queries run over database/sql.
	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to open sql DB: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("❌ Failed to ping sql DB: %v", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	// ============================================
	// Initialize Repositories
	// ============================================
	repos := repository.NewRepositories(pgDB.Pool, sqlDB)
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			log.Println("⚡ Redis cache enabled")
		}
	}

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	hub := socket.NewHub()
	go hub.Run()
	broadcaster := socket.NewBroadcaster(hub)

	// WebSocket handler validates JWT from query params itself
	wsHandler := socket.NewHandler(hub, cfg.JWTSecret)
	log.Println("🔌 WebSocket hub initialized")

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.Environment != "production" {
		seed.SeedData(repos)
	}

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		Redis:       redisDB,
		Broadcaster: broadcaster,
	})
	log.Println("✨ All services initialized")

	// ============================================
	// Initialize Handlers
	// ============================================
	h := handlers.NewHandlers(services)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(
		repos.TaskRepo,
		repos.UserRepo,
		repos.OrgRepo,
		repos.AnalyticsRepo,
		redisDB,
		broadcaster,
	)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   "connected",
			"cache":      getCacheStatus(redisDB),
			"websocket":  "active",
			"ws_clients": hub.GetConnectedClientsCount(),
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// WebSocket route
		api.GET("/ws", wsHandler.HandleWebSocket)

		// ============================================
		// Protected routes (require auth middleware)
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth))
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/me", h.User.Me)
				users.PUT("/me", h.User.UpdateMe)
				users.GET("/search", h.User.Search)
			}

			// Organization routes
			orgs := protected.Group("/orgs")
			{
				orgs.GET("", h.Organization.List)
				orgs.POST("", h.Organization.Create)
				orgs.GET("/:id", h.Organization.Get)
				orgs.PUT("/:id", h.Organization.Update)
				orgs.DELETE("/:id", h.Organization.Delete)

				// Members
				orgs.GET("/:id/members", h.Organization.ListMembers)
				orgs.POST("/:id/members", h.Organization.AddMember)
				orgs.PUT("/:id/members/:userId", h.Organization.UpdateMemberRole)
				orgs.DELETE("/:id/members/:userId", h.Organization.RemoveMember)
				orgs.POST("/:id/leave", h.Organization.Leave)

				// Projects
				orgs.GET("/:id/projects", h.Project.ListByOrganization)
				orgs.POST("/:id/projects", h.Project.Create)

				// Analytics
				orgs.GET("/:id/dashboard", h.Analytics.OrgDashboard)
			}

			// Project routes
			projects := protected.Group("/projects")
			{
				projects.GET("/:id", h.Project.Get)
				projects.PUT("/:id", h.Project.Update)
				projects.DELETE("/:id", h.Project.Delete)

				// Members
				projects.GET("/:id/members", h.Project.ListMembers)
				projects.POST("/:id/members", h.Project.AddMember)
				projects.DELETE("/:id/members/:userId", h.Project.RemoveMember)

				// Tasks
				projects.GET("/:id/tasks", h.Task.ListByProject)
				projects.POST("/:id/tasks", h.Task.Create)
				projects.GET("/:id/board", h.Task.GetBoard)

				// Labels
				projects.GET("/:id/labels", h.Project.ListLabels)
				projects.POST("/:id/labels", h.Project.CreateLabel)
				projects.PUT("/:id/labels/:labelId", h.Project.UpdateLabel)
				projects.DELETE("/:id/labels/:labelId", h.Project.DeleteLabel)

				// Analytics
				projects.GET("/:id/dashboard", h.Analytics.ProjectDashboard)
			}

			// Task routes
			tasks := protected.Group("/tasks")
			{
				tasks.GET("/my", h.Task.ListMyTasks)
				tasks.GET("/:id", h.Task.Get)
				tasks.PUT("/:id", h.Task.Update)
				tasks.DELETE("/:id", h.Task.Delete)

				// Board movement & assignment
				tasks.PATCH("/:id/move", h.Task.Move)
				tasks.PATCH("/:id/assign", h.Task.Assign)

				// Comments
				tasks.GET("/:id/comments", h.Task.ListComments)
				tasks.POST("/:id/comments", h.Task.AddComment)
				tasks.PUT("/comments/:commentId", h.Task.UpdateComment)
				tasks.DELETE("/comments/:commentId", h.Task.DeleteComment)

				// Labels
				tasks.GET("/:id/labels", h.Task.ListLabels)
				tasks.POST("/:id/labels", h.Task.AddLabel)
				tasks.DELETE("/:id/labels/:labelId", h.Task.RemoveLabel)

				// Attachments
				tasks.GET("/:id/attachments", h.Attachment.ListByTask)
				tasks.POST("/:id/attachments", h.Attachment.Upload)
			}

			// Attachment routes
			attachments := protected.Group("/attachments")
			{
				attachments.GET("/:id/download", h.Attachment.Download)
				attachments.DELETE("/:id", h.Attachment.Delete)
			}

			// Search
			protected.GET("/search", h.Search.Search)
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}
