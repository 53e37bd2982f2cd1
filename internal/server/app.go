// Package server initializes and runs the authentication server. It wires
// configuration, the storage manager, the auth and session services, and the
// HTTP transport, and handles graceful shutdown: the HTTP server drains first,
// then the store connection is closed within a bounded grace period.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vkazmirchuk/authgate/internal/logging"
	"github.com/vkazmirchuk/authgate/internal/server/auth"
	"github.com/vkazmirchuk/authgate/internal/server/config"
	"github.com/vkazmirchuk/authgate/internal/server/httpapi"
	"github.com/vkazmirchuk/authgate/internal/server/session"
	"github.com/vkazmirchuk/authgate/internal/server/storage"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	store      storage.Manager
	httpServer *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	store, err := storage.NewPostgresManager(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	authService := auth.NewService(store.Users(), logger)
	sessionService := session.NewService(cfg.SecretKey, cfg.SessionMaxAge)

	httpServer := httpapi.NewServer(cfg, logger, authService, sessionService, store)

	return &App{
		config:     cfg,
		logger:     logger,
		store:      store,
		httpServer: httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// warmupStore runs the eager health check and boot-time migrations. Only
// development-like tiers do this; in production the pool connects lazily on
// first query and migrations are applied by the deploy pipeline.
func (app *App) warmupStore(ctx context.Context) {
	if !app.store.EnsureConnection(ctx) {
		return
	}
	app.logger.Info(ctx, "store connected")
	if err := app.store.RunMigrations(ctx); err != nil {
		app.logger.Error(ctx, "migration error", "error", err)
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	if !app.config.IsProduction() {
		go app.warmupStore(ctx)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancelShutdown()
	if err := app.store.Close(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "store close error", "error", err)
	}
}
