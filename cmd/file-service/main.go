package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/ondrasimku/file-service-go/internal/config"
	httphandler "github.com/ondrasimku/file-service-go/internal/http"
	"github.com/ondrasimku/file-service-go/internal/log"
	"github.com/ondrasimku/file-service-go/internal/storage"
	"github.com/ondrasimku/file-service-go/internal/storage/local"
	"github.com/ondrasimku/file-service-go/internal/storage/postgres"
	"github.com/ondrasimku/file-service-go/internal/storage/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewLogger(cfg.Log.Level, cfg.Log.Format)

	store, err := openStore(context.Background(), cfg.Store, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}

	router := httphandler.NewRouter(store, cfg.MaxFileSize, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Starting file service", "addr", cfg.HTTPAddr, "driver", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.Info("Shutting down server")
				if err := srv.Shutdown(ctx); err != nil {
					return err
				}
				return store.Close()
			},
		},
	)

	exitCode := <-wait
	logger.Info("Server exited", "code", exitCode)
	os.Exit(exitCode)
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (storage.Repository, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if err := postgres.Migrate(cfg.PostgresDSN, logger); err != nil {
			return nil, err
		}
		store, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverLocal:
		store, err := local.NewLocalStorage(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := sqlite.Open(sqlite.Options{Path: cfg.SQLitePath, Debug: cfg.Debug})
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
