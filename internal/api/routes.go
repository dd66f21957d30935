package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"propwatch/server/config"
	"propwatch/server/internal/database"
	"propwatch/server/internal/search"
)

func SetupRoutes(router *gin.Engine, store *database.Store, index *search.Index, cfg *config.Config, logger *logrus.Logger) {
	handler := NewHandler(store, index, cfg, logger)

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/regions", handler.GetRegions)
		api.GET("/stats/national", handler.GetNationalStats)
		api.GET("/trending", handler.GetTrending)
		api.GET("/search", handler.Search)
		api.GET("/search/suggest", handler.Suggest)
		api.GET("/search/postcode", handler.GetPostcode)
		api.POST("/search/reindex", handler.Reindex)
		api.GET("/health", handler.Health)
	}
}
