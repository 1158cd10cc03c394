package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"brochure/server/config"
	"brochure/server/internal/api"
	"brochure/server/internal/models"
	"brochure/server/internal/queue"
	"brochure/server/internal/render"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// A missing .env is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WithError(err).Warn("Failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithError(err).Warnf("Unknown log level %q, using info", cfg.LogLevel)
	}

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load option catalog")
	}
	logger.WithFields(logrus.Fields{
		"path":           cfg.CatalogPath,
		"property_types": len(catalog.PropertyTypes),
	}).Info("Loaded option catalog")

	renderer := render.New(cfg.RendererOptions(logger)...)
	renderQueue := queue.NewRenderQueue(renderer, cfg.Server.RenderQueueSize, cfg.Server.RenderWorkers, logger)
	renderQueue.Start()

	handler := api.NewHandler(catalog, renderQueue, api.Settings{
		FeatureStyle: models.ParseFeatureStyle(cfg.Brochure.FeatureStyle),
		Filename:     cfg.Brochure.Filename,
	}, logger)

	gin.SetMode(cfg.Server.GinMode)
	router := api.NewRouter(handler, logger, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shut down")
	}
	if err := renderQueue.Close(); err != nil {
		logger.WithError(err).Error("Failed to stop render queue")
	}
	logger.Info("Server stopped")
}
