package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"price-forecast/internal/advisor"
	"price-forecast/internal/api"
	"price-forecast/internal/config"
	"price-forecast/internal/data"
	"price-forecast/internal/forecast"
	"price-forecast/internal/logger"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	log := logger.New(logger.FromEnv())

	cfgPath := os.Getenv("PRICECAST_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load config")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	provider, err := forecast.NewAdditive(cfg.AdditiveParams(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid forecast parameters")
	}
	adv := advisor.New(provider, cfg.AdvisorOptions(), log)
	chart := data.NewChartClient(cfg.Source.BaseURL, cfg.Source.Timeout, data.NewResponseCache(cfg.Source.CacheTTL), log)

	router := api.NewRouter(api.Deps{
		Config:  cfg,
		Advisor: adv,
		Chart:   chart,
		Log:     log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.API.Env).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.RequestTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
