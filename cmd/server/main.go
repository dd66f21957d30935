package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"propwatch/server/config"
	"propwatch/server/internal/api"
	"propwatch/server/internal/database"
	"propwatch/server/internal/search"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	store, err := database.Open(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer store.Close()
	logger.Infof("Connected to %s store", cfg.Database.Driver)

	var index *search.Index
	if cfg.Search.MeiliHost != "" {
		index = search.NewIndex(cfg.Search.MeiliHost, cfg.Search.MeiliAPIKey, logger)
		if err := index.Init(); err != nil {
			logger.WithError(err).Warn("Search index unavailable, continuing with store-only search")
		} else {
			logger.Infof("Search index ready at %s", cfg.Search.MeiliHost)
		}
	}

	router := gin.Default()
	api.SetupRoutes(router, store, index, cfg, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Infof("Starting server on port %d", cfg.Port)
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
