package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"okeiko-booking-backend/config"
	"okeiko-booking-backend/internal/api"
	"okeiko-booking-backend/internal/auth"
	"okeiko-booking-backend/internal/engine"
	"okeiko-booking-backend/internal/logging"
	"okeiko-booking-backend/internal/rowstore"
	"okeiko-booking-backend/internal/store"
)

func main() {
	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("path", configPath),
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("oversold_policy", cfg.Booking.OversoldPolicy),
	)

	rows, err := openRowStore(cfg)
	if err != nil {
		logger.Fatal("failed to open row store", zap.Error(err))
	}
	defer rows.Close()

	authSvc := auth.NewService(rows, cfg.Auth, logger)
	eng := engine.New(store.NewSlotRegistry(rows), store.NewBookingLedger(rows), cfg.Booking.OversoldPolicy, logger)

	cacheStore := cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL)
	handler := api.NewHandler(eng, authSvc, cacheStore, logger)
	router := api.NewRouter(handler, authSvc, cfg.Server, cacheStore)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown signal received, stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("HTTP server shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}

func openRowStore(cfg *config.Config) (rowstore.Store, error) {
	switch cfg.Store.Backend {
	case "database":
		return rowstore.OpenDB(&cfg.Store.Database)
	default:
		return rowstore.NewCSVStore(cfg.Store.CSV.Dir)
	}
}
