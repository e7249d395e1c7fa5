package http

import (
	"github.com/gin-gonic/gin"

	"eidbi-query-system/internal/bootstrap"
	"eidbi-query-system/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	queryHandler := handler.NewQueryHandler(app.QueryService)
	ingestHandler := handler.NewIngestHandler(app.IngestService)
	feedbackHandler := handler.NewFeedbackHandler(app.FeedbackService)
	adminHandler := handler.NewAdminHandler(app.QueryService)

	v1 := router.Group("/api/v1")
	v1.POST("/query", queryHandler.Query)

	ingestGroup := v1.Group("/ingest")
	ingestGroup.POST("/chunks", ingestHandler.IngestChunks)
	ingestGroup.POST("/facts", ingestHandler.IngestFacts)

	v1.POST("/feedback", feedbackHandler.Submit)
	v1.GET("/feedback/stats", feedbackHandler.Stats)

	v1.GET("/cache-stats", adminHandler.CacheStats)
	v1.POST("/clear-cache", adminHandler.ClearCaches)
	v1.GET("/sessions/:id/history", adminHandler.SessionHistory)

	return router
}
