package api

import (
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/mtauhidul/ats-backend-demo-sub000/api/handlers"
	"github.com/mtauhidul/ats-backend-demo-sub000/api/middleware"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/repository"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(r *gin.Engine, s *services.Services, repos *repository.Repositories, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	r.GET("/healthz", handlers.HealthCheck)

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-ATS-API-KEY",
		ValidAPIKey: apikey,
	})

	ingestionGroup := r.Group("/ingestion")
	ingestionGroup.Use(apiKeyMiddleware)
	ingestionGroup.Use(middleware.TracingMiddleware())
	{
		ingestionGroup.GET("/status", handlers.GetIngestionStatus(s.Orchestrator))
		ingestionGroup.POST("/enable", handlers.EnableIngestion(s.Orchestrator))
		ingestionGroup.POST("/disable", handlers.DisableIngestion(s.Orchestrator))
		ingestionGroup.PUT("/interval", handlers.SetIngestionInterval(s.Orchestrator))
		ingestionGroup.POST("/trigger", handlers.TriggerIngestion(s.Orchestrator))
		ingestionGroup.POST("/backfill", handlers.BackfillIngestion(s.Orchestrator))
	}
}
