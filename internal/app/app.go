// Package app initializes and runs the user service.
// It configures logging, the user and token stores, authentication and
// routing, and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/patric-chuzhbe/userauth/internal/auth"
	"github.com/patric-chuzhbe/userauth/internal/config"
	"github.com/patric-chuzhbe/userauth/internal/db/jsondb"
	"github.com/patric-chuzhbe/userauth/internal/db/memorystorage"
	"github.com/patric-chuzhbe/userauth/internal/logger"
	"github.com/patric-chuzhbe/userauth/internal/router"
	"github.com/patric-chuzhbe/userauth/internal/service"
	"github.com/patric-chuzhbe/userauth/internal/tokenstore"
	"github.com/patric-chuzhbe/userauth/internal/user"
)

// App holds the configuration, the user store and the HTTP handler of the service.
type App struct {
	cfg         *config.Config
	db          *memorystorage.MemoryStorage
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - seeding the user store
// - setting up the router and middleware
func New(optionsProto ...config.InitOption) (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New(optionsProto...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	seed, err := getSeed(app.cfg)
	if err != nil {
		return nil, err
	}

	app.db, err = memorystorage.New(seed...)
	if err != nil {
		return nil, err
	}

	tokens := tokenstore.New()
	app.httpHandler = router.New(
		service.New(app.db, tokens),
		auth.New(tokens),
	)

	return app, nil
}

func getSeed(cfg *config.Config) ([]user.User, error) {
	if cfg.SeedFile == "" {
		return memorystorage.Seed(), nil
	}

	seed, err := jsondb.LoadUsers(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	if !jsondb.HasAdmin(seed) {
		logger.Log.Warnw("seed file has no admin user; users cannot be created or deleted", "seed_file", cfg.SeedFile)
	}
	logger.Log.Infow("users loaded from seed file", "seed_file", cfg.SeedFile, "count", len(seed))

	return seed, nil
}

// Handler returns the HTTP handler of the service.
func (a *App) Handler() http.Handler {
	return a.httpHandler
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}
