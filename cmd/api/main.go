package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hemant18-09/pharmacy/internal/auth"
	"github.com/hemant18-09/pharmacy/internal/cache"
	"github.com/hemant18-09/pharmacy/internal/config"
	"github.com/hemant18-09/pharmacy/internal/events"
	"github.com/hemant18-09/pharmacy/internal/handlers"
	"github.com/hemant18-09/pharmacy/internal/repository"
	"github.com/hemant18-09/pharmacy/internal/service"
	"github.com/hemant18-09/pharmacy/internal/storage"
	"github.com/hemant18-09/pharmacy/pkg/logger"
	"github.com/hemant18-09/pharmacy/pkg/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Pharmacy Portal API
// @version         1.0
// @description     Order fulfillment and inventory API for the pharmacy portal: prescription lifecycle, stock ledger and dashboard reports.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /

// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. Example: "Bearer eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."
func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("🚀 Starting Pharmacy Portal",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	// Initialize storage
	var store storage.Store
	if cfg.SQLitePath != "" {
		appLogger.Info("🔧 Opening SQLite store...", zap.String("path", cfg.SQLitePath))
		sqliteStore, err := storage.NewSQLiteStore(cfg.SQLitePath, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to open SQLite store", zap.Error(err))
		}
		store = sqliteStore
		appLogger.Info("✅ SQLite store ready")
	} else {
		appLogger.Info("🔧 Using in-memory store (set SQLITE_PATH to persist data)")
		store = storage.NewMemoryStore()
	}
	defer store.Close()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(store)
	inventoryRepo := repository.NewInventoryRepository(store)

	if cfg.SQLitePath == "" && cfg.SeedData {
		if err := repository.Seed(context.Background(), orderRepo, inventoryRepo, appLogger); err != nil {
			appLogger.Warn("Failed to seed demo data", zap.Error(err))
		}
	}

	// Initialize event publisher
	var publisher events.EventPublisher
	if cfg.UseKafka {
		appLogger.Info("📡 Kafka Configuration",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic_orders", cfg.KafkaTopicOrders),
			zap.String("topic_inventory", cfg.KafkaTopicInventory),
			zap.String("client_id", cfg.KafkaClientID),
			zap.String("acks", cfg.KafkaAcks),
			zap.Int("retries", cfg.KafkaRetries),
		)
		kafkaPublisher, err := events.NewKafkaEventPublisher(cfg, appLogger)
		if err != nil {
			appLogger.Warn("Failed to initialize Kafka publisher, using in-memory fallback", zap.Error(err))
			publisher = events.NewEventPublisher(appLogger)
		} else {
			publisher = kafkaPublisher
			defer kafkaPublisher.Close()
		}
	} else {
		publisher = events.NewEventPublisher(appLogger)
	}

	// Initialize report cache (optional)
	var reportCache cache.Cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	if cfg.UseCache {
		appLogger.Info("💾 Cache Configuration",
			zap.String("redis_host", cfg.RedisHost),
			zap.String("redis_port", cfg.RedisPort),
			zap.Int("cache_ttl", cfg.CacheTTL),
		)
		reportCache = cache.New(cfg, appLogger)
		// Write events drop cached reports so reads never serve
		// pre-write aggregates.
		publisher = events.NewCacheInvalidatingPublisher(publisher, reportCache, handlers.ReportCacheKeyPrefix+"*", appLogger)
	} else {
		appLogger.Info("⏭️  Skipping report cache initialization (USE_CACHE=false)")
	}

	// Initialize services
	orderService := service.NewOrderService(orderRepo, publisher, appLogger)
	inventoryService := service.NewInventoryService(inventoryRepo, publisher, appLogger)
	reportsService := service.NewReportsService(orderRepo, inventoryRepo, appLogger)

	// Initialize JWT manager and handlers
	appLogger.Info("🔐 JWT Configuration",
		zap.Int("secret_length", len(cfg.JWTSecret)),
		zap.String("note", "Token expiration: 10 minutes"),
	)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, appLogger)
	authHandler := auth.NewAuthHandler(jwtManager, appLogger)
	orderHandler := handlers.NewOrderHandler(orderService, appLogger)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, appLogger)
	reportsHandler := handlers.NewReportsHandler(reportsService, reportCache, cacheTTL, appLogger)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// CORS middleware (must be first to handle preflight requests)
	router.Use(middleware.CORSMiddleware())

	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(logger.GinMiddleware(appLogger))
	router.Use(middleware.RequestIDMiddleware(appLogger))

	requestIDStore := middleware.NewInMemoryRequestIDStore()
	router.Use(middleware.IdempotencyMiddleware(requestIDStore, appLogger, 5*time.Minute))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint (public)
	router.GET("/health", healthCheck)

	// Auth endpoints (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
	}

	pharmacy := router.Group("/pharmacy")
	{
		// Read endpoints (public)
		pharmacy.GET("/orders", orderHandler.ListOrders)
		pharmacy.GET("/orders/:id", orderHandler.GetOrder)
		pharmacy.GET("/inventory", inventoryHandler.ListInventory)
		pharmacy.GET("/reports/daily-summary", reportsHandler.DailySummary)
		pharmacy.GET("/reports/top-medicines", reportsHandler.TopMedicines)
		pharmacy.GET("/stats", reportsHandler.Stats)

		// Write endpoints (require JWT authentication)
		protected := pharmacy.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, appLogger))
		{
			protected.POST("/orders", orderHandler.CreateOrder)
			protected.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
			protected.POST("/inventory/add", inventoryHandler.AddItem)
			protected.POST("/inventory/update", inventoryHandler.UpdateStock)
			protected.POST("/inventory/adjust", inventoryHandler.AdjustStock)
			protected.DELETE("/inventory/:id", inventoryHandler.DeleteItem)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting pharmacy portal",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}

// healthCheck godoc
// @Summary      Health check endpoint
// @Description  Reports service liveness.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string  "Service operational"
// @Router       /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "pharmacy-portal",
	})
}
