package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/caterbase/internal/auth"
	"github.com/mmynk/caterbase/internal/config"
	"github.com/mmynk/caterbase/internal/httpapi"
	"github.com/mmynk/caterbase/internal/metrics"
	"github.com/mmynk/caterbase/internal/middleware"
	"github.com/mmynk/caterbase/internal/service"
	"github.com/mmynk/caterbase/internal/storage"
	"github.com/mmynk/caterbase/internal/storage/gormstore"
	"github.com/mmynk/caterbase/internal/storage/sqlite"
	"github.com/mmynk/caterbase/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.SetupWithLevel(cfg.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "driver", cfg.DBDriver)

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	newAuth := func(s storage.Store) auth.Authenticator {
		return auth.NewPasswordAuthenticator(s)
	}
	estimates := service.NewEstimateService(store, m, logger)

	api := httpapi.NewServer(httpapi.Deps{
		Auth:      service.NewAuthService(store, newAuth, jwtManager, logger),
		Estimates: estimates,
		Catalog:   service.NewCatalogService(store, estimates, m, logger),
		JWT:       jwtManager,
		Metrics:   m,
		Logger:    logger,
	})

	// Add logging and CORS middleware
	handler := middleware.Logging(logger, m)(middleware.CORS(api.Routes()))

	// h2c serves HTTP/2 without TLS alongside HTTP/1.1
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "address", cfg.Addr(), "url", "http://localhost"+cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

func openStore(cfg config.Config) (storage.Store, error) {
	if cfg.DBDriver == config.DriverPostgres {
		store, err := gormstore.OpenPostgres(cfg.DatabaseDSN, cfg.DBDebug)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return store, nil
}
