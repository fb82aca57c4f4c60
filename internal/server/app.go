// Package server initializes and runs the application server: it connects
// the document store, wires the services and the GraphQL schema, and serves
// HTTP with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/posts"
	"github.com/dmitrijs2005/microblog/internal/server/shared/db"
	"github.com/dmitrijs2005/microblog/internal/server/upload"
	"github.com/dmitrijs2005/microblog/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager db.Manager
	users   *users.Service
	posts   *posts.Service
	uploads *upload.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := db.NewMongoManager(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := manager.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("index init error: %w", err)
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := users.NewService(manager.Users(), cfg, logger)
	ps := posts.NewService(manager.Posts(), manager.Users(), manager, store, cfg.PageSize, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		manager: manager,
		users:   us,
		posts:   ps,
		uploads: upload.NewHandler(store, logger),
	}, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (upload.Storage, error) {
	if cfg.UploadBackend == "s3" {
		return upload.NewS3Storage(ctx, cfg)
	}
	return upload.NewDiskStorage(cfg.ImageDir)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: app.newRouter(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}
	return app.manager.Close(shutdownCtx)
}
