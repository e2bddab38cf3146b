package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
	"github.com/polkiloo/procurement/internal/server/http/handlers"
	"github.com/polkiloo/procurement/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ProcurementFacade, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	requestHandler := handlers.NewRequestHandler(facade)
	intakeHandler := handlers.NewIntakeHandler(facade, cfg.MaxUploadBytes)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	api.GET("/taxonomy", intakeHandler.Taxonomy)

	intake := api.Group("/intake")
	intake.POST("/text", intakeHandler.Text)
	intake.POST("/document", intakeHandler.Document)
	intake.POST("/lines", intakeHandler.Lines)
	intake.POST("/classify", intakeHandler.Classify)

	requests := api.Group("/requests")
	requests.POST("", requestHandler.Create)
	requests.GET("", requestHandler.List)
	requests.GET("/:id", requestHandler.Get)
	requests.GET("/:id/lines", requestHandler.Lines)
	requests.GET("/:id/status", requestHandler.Status)
	requests.POST("/:id/status", requestHandler.Transition)
	requests.GET("/:id/history", requestHandler.History)

	return engine
}
