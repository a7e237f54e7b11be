package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pinsync/internal/account"
	"pinsync/internal/api/handlers"
	"pinsync/internal/api/middleware"
	"pinsync/internal/cache"
	"pinsync/internal/config"
	"pinsync/internal/database"
	"pinsync/internal/events"
	"pinsync/internal/feed"
	"pinsync/internal/logger"
	"pinsync/internal/metadata"
	"pinsync/internal/notify"
	"pinsync/internal/pinterest"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, store metadata.Store, bufferCache cache.Cache) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Wire services
	accountService := account.NewService(store, logger)
	client := pinterest.NewClient(cfg.PinterestBaseURL, cfg.PinterestAPIVersion, accountService, logger)
	tracker := events.NewTracker(bufferCache, client, accountService, cfg.Features, logger)
	exporter := feed.NewExporter(db.DB, cfg.FeedExportDir, logger)
	reconciler := feed.NewReconciler(client, store, cfg.FeedExportDir, logger)
	notifier := notify.New(db.DB, logger)

	// Initialize handlers
	eventsHandler := handlers.NewEventsHandler(tracker, logger)
	accountHandler := handlers.NewAccountHandler(db.DB, logger, accountService, client, exporter, reconciler)
	feedsHandler := handlers.NewFeedsHandler(db.DB, logger, exporter, reconciler)
	notificationsHandler := handlers.NewNotificationsHandler(notifier, logger)

	// Routes
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	{
		// Conversion events
		v1.POST("/events/:name", eventsHandler.Track)

		// Account connection
		accountRoutes := v1.Group("/account")
		{
			accountRoutes.POST("/connect", accountHandler.Connect)
			accountRoutes.POST("/disconnect", accountHandler.Disconnect)
			accountRoutes.GET("/status", accountHandler.Status)
		}

		// Feeds
		v1.POST("/feeds/regenerate", feedsHandler.Regenerate)

		// Notifications
		v1.GET("/notifications", notificationsHandler.List)
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
