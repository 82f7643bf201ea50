package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-that-is-at-least-32-characters"

// testConfig returns a valid configuration for the in-memory driver.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   0,
			LogLevel:               "error",
			Environment:            config.EnvTest,
			ReadTimeoutSeconds:     5,
			WriteTimeoutSeconds:    5,
			ShutdownTimeoutSeconds: 5,
		},
		Database: config.DatabaseConfig{
			Driver:       config.DriverMemory,
			MaxOpenConns: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:            testJWTSecret,
			TokenLifetimeMinutes: 60,
			BcryptCost:           bcrypt.MinCost,
			Principals: []config.PrincipalConfig{
				{ID: 1, Name: "user1", Password: "password1"},
				{ID: 2, Name: "user2", Password: "password2"},
			},
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApplication(t *testing.T, cfg *config.Config) *application {
	t.Helper()
	app, err := newApplication(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app
}

func TestNewApplication_Drivers(t *testing.T) {
	t.Parallel()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		app := newTestApplication(t, testConfig())

		assert.NotNil(t, app.taskStore)
		assert.NotNil(t, app.principalStore)
		assert.NotNil(t, app.tokenService)
		assert.NotNil(t, app.authenticator)
		assert.NotNil(t, app.taskService)
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.URL = filepath.Join(t.TempDir(), "tasks.db")

		app := newTestApplication(t, cfg)
		assert.NotNil(t, app.taskStore)
	})

	t.Run("unsupported driver", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.Database.Driver = "mysql"

		_, err := newApplication(context.Background(), cfg, testLogger())
		assert.ErrorContains(t, err, `unsupported database driver "mysql"`)
	})
}

func TestNewApplication_InvalidAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "short secret",
			mutate: func(c *config.Config) { c.Auth.JWTSecret = "short" },
			want:   "failed to initialize token service",
		},
		{
			name: "duplicate principal",
			mutate: func(c *config.Config) {
				c.Auth.Principals = append(c.Auth.Principals,
					config.PrincipalConfig{ID: 3, Name: "USER1", Password: "x"})
			},
			want: "failed to create principal store",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			tt.mutate(cfg)

			_, err := newApplication(context.Background(), cfg, testLogger())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestHandleMigrations_RequiresPostgres(t *testing.T) {
	t.Parallel()

	err := handleMigrations(context.Background(), testConfig(), testLogger(), "status")
	assert.ErrorContains(t, err, "migrations require the postgres driver")
}

func TestStartHTTPServer_StopsOnCancel(t *testing.T) {
	t.Parallel()
	app := newTestApplication(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.startHTTPServer(ctx, app.setupRouter()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
