package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/govgr-digital/profile-api/internal/config"
	"github.com/govgr-digital/profile-api/internal/handlers"
	"github.com/govgr-digital/profile-api/internal/logging"
	"github.com/govgr-digital/profile-api/internal/middleware"
	"github.com/govgr-digital/profile-api/internal/observability"
	"github.com/govgr-digital/profile-api/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/govgr-digital/profile-api/docs"
)

// @title           Profile Acquisition API
// @version         1.0
// @description     API for acquiring and validating citizen profile records. A client opens an acquisition flow, fills the profile draft by hand or retrieves it from Taxisnet with the citizen's credentials, and submits it once the validation pass is clean.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /v1

// @tag.name flow
// @tag.description Acquisition flow lifecycle

// @tag.name profile
// @tag.description Submitted profile records

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	// Initialize database connections
	config.InitMongoDB()
	config.InitRedis()

	// Wire services
	taxisnet := services.NewTaxisnetClient(config.AppConfig, logging.Logger)
	store := services.NewMongoProfileStore(config.AppConfig, logging.Logger)

	flowManager := services.NewFlowManager(taxisnet, store, config.AppConfig.FlowTTL, logging.Logger)
	evictionCtx, stopEviction := context.WithCancel(context.Background())
	defer stopEviction()
	flowManager.StartEviction(evictionCtx)

	handlers.FlowManagerInstance = flowManager
	handlers.ProfileStoreInstance = store

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		v1.POST("/flows", handlers.CreateFlow)
		v1.GET("/flows/:flow_id", handlers.GetFlow)
		v1.DELETE("/flows/:flow_id", handlers.DeleteFlow)
		v1.PUT("/flows/:flow_id/mode", handlers.SelectFlowMode)
		v1.PUT("/flows/:flow_id/fields", handlers.EditFlowField)
		v1.POST("/flows/:flow_id/credentials/persistence", handlers.ToggleCredentialPersistence)
		v1.POST("/flows/:flow_id/retrieval", handlers.TriggerRetrieval)
		v1.POST("/flows/:flow_id/submission", handlers.TriggerSubmission)
		v1.POST("/flows/:flow_id/reset", handlers.ResetFlow)

		v1.GET("/profiles/:afm", handlers.GetProfile)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("server forced to shutdown", zap.Error(err))
	}

	config.CloseMongoDB()
	config.CloseRedis()

	logging.Logger.Info("server exited")
}
