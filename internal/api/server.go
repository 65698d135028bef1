package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ordersync/internal/api/handlers"
	"ordersync/internal/api/middleware"
	"ordersync/internal/config"
	"ordersync/internal/database"
	"ordersync/internal/events"
	"ordersync/internal/logger"
	"ordersync/internal/services/bitrix"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher *events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Bitrix sync pipeline
	mappings := bitrix.DefaultMappings()
	mappings.CategoryID = cfg.BitrixCategoryID
	client := bitrix.NewClient(cfg.BitrixWebhookBase, logger)
	mapper := bitrix.NewMapper(mappings, logger)
	contacts := bitrix.NewContactResolver(client, logger)
	syncService := bitrix.NewSyncService(client, mapper, contacts, logger)

	// Initialize handlers
	store := events.NewStore(db.DB)
	var pub handlers.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	webhookHandler := handlers.NewWebhookHandler(syncService, store, pub, logger)
	eventHandler := handlers.NewEventHandler(store, logger)

	// Routes
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		// Shopify webhooks
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/shopify", webhookHandler.Webhook)
		}

		// Webhook event monitoring
		eventRoutes := v1.Group("/events")
		{
			eventRoutes.GET("", eventHandler.List)
			eventRoutes.GET("/:id", eventHandler.Get)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}
