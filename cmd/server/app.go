package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
)

// application holds the shared dependencies and releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Stores
	taskStore      store.TaskStore
	principalStore store.PrincipalStore
	closeStore     func() error

	// Services
	tokenService  auth.TokenService
	authenticator *auth.Authenticator
	taskService   service.TaskService
}

// newApplication opens the configured task store and wires every service on
// top of it. The caller must call cleanup once the application is done.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.taskStore, app.closeStore, err = openTaskStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("application initialized")
	return app, nil
}

func (app *application) initServices() error {
	cfg := app.config

	principals, err := auth.BuildPrincipals(cfg.Auth.Principals, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to prepare principals: %w", err)
	}
	app.principalStore, err = memory.NewPrincipalStore(principals)
	if err != nil {
		return fmt.Errorf("failed to create principal store: %w", err)
	}
	app.logger.Info("principal store initialized", slog.Int("principals", len(principals)))

	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.logger.Info("token service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.authenticator, err = auth.NewAuthenticator(
		app.principalStore,
		app.tokenService,
		auth.NewBcryptVerifier(),
		cfg.Auth.BcryptCost,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	return nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the task store.
func (app *application) cleanup() {
	if app.closeStore != nil {
		if err := app.closeStore(); err != nil {
			app.logger.Error("error closing task store", slog.String("error", err.Error()))
		}
		app.closeStore = nil
	}
	app.logger.Info("application shutdown completed")
}
