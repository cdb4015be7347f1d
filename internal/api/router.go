// Package api wires the HTTP surface: middleware, routes and handlers.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"price-forecast/internal/advisor"
	"price-forecast/internal/api/handlers"
	"price-forecast/internal/api/middleware"
	"price-forecast/internal/config"
	"price-forecast/internal/data"
)

// Deps are the collaborators the router needs. Chart may be nil to disable
// symbol lookups.
type Deps struct {
	Config  *config.Config
	Advisor *advisor.Advisor
	Chart   *data.ChartClient
	Log     zerolog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	router := gin.New()
	router.MaxMultipartMemory = cfg.API.MaxUploadMB << 20

	router.Use(middleware.CORS(cfg.API.AllowedOrigins))
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.ErrorHandler(d.Log))
	router.NoRoute(middleware.NotFound())

	analysisHandler := handlers.NewAnalysisHandler(d.Advisor, d.Chart, handlers.AnalysisConfig{
		Mapping:        cfg.ColumnMapping(),
		SourceRange:    cfg.Source.Range,
		RequestTimeout: cfg.API.RequestTimeout,
		MaxUploadBytes: cfg.API.MaxUploadMB << 20,
	}, d.Log)
	modelHandler := handlers.NewModelHandler(cfg.AdditiveParams(), d.Advisor.Options())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/models", modelHandler.ListModels)
		v1.POST("/series", analysisHandler.DescribeSeries)
		v1.POST("/backtest", analysisHandler.RunBacktest)
		v1.POST("/recommend", analysisHandler.Recommend)
	}
	return router
}
