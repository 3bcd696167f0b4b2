package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"rideinsight/internal/http/handlers"
	httpapi "rideinsight/internal/http/httpapi"
	"rideinsight/internal/infra"
	"rideinsight/internal/infra/geoip"
	"rideinsight/internal/insights"
	"rideinsight/internal/middleware"
)

func main() {
	// Load .env when present
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	svc, err := insights.Wire(ctx, cfg, dbpool, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build insights service")
	}

	geo, err := geoip.Open(cfg.GeoIPDatabasePath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()
	var lookup middleware.CountryLookup
	if geo != nil {
		lookup = geo.CountryCode
	}

	app := handlers.NewApp(svc, dbpool, &logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   lookup,
		Logger:          &logger,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Strs("cors_origins", cfg.AllowedOrigins).Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
