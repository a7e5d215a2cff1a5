// Package app wires the SoloStack native backend together: configuration,
// the one-time startup migration, secure-store backend selection, and the
// loopback IPC server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/solostack/solostack/internal/ipc"
	"github.com/solostack/solostack/internal/migration"
	"github.com/solostack/solostack/internal/securestore"
	"github.com/solostack/solostack/internal/securestore/uibridge"
)

// App orchestrates the lifecycle of the backend services.
type App struct {
	cfg    *Config
	engine *migration.Engine
	holder *migration.Holder
	server *ipc.Server

	// The migration runs at most once per process start, strictly before
	// the IPC surface accepts requests.
	migrateOnce sync.Once
}

// Option configures an App beyond its Config.
type Option func(*options)

type options struct {
	bridge *uibridge.Bridge
}

// WithUIBridge provides the cross-runtime bridge the host shell constructed
// on mobile platforms. Without it, platforms that need a bridge fall back to
// the unsupported backend.
func WithUIBridge(bridge *uibridge.Bridge) Option {
	return func(o *options) {
		o.bridge = bridge
	}
}

// New creates a new App instance. The secure-store backend variant is
// selected here, once, and injected everywhere it is needed.
func New(cfg *Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	engine, err := migration.NewEngine(cfg.MigrationConfig(), slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create migration engine: %w", err)
	}

	backend, err := securestore.ForPlatform(cfg.SecureStore.Service, o.bridge, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to select secure store backend: %w", err)
	}
	slog.Info("secure store backend selected", "backend", backend.Name())

	creds, err := securestore.NewService(backend, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create credential service: %w", err)
	}

	holder := migration.NewHolder()

	server, err := ipc.New(holder, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create ipc server: %w", err)
	}

	return &App{
		cfg:    cfg,
		engine: engine,
		holder: holder,
		server: server,
	}, nil
}

// MigrationReport returns the published startup migration report. The
// zero-value report is returned before Start has run the migration.
func (a *App) MigrationReport() migration.Report {
	return a.holder.Report()
}

// Start runs the startup migration, then starts all services and blocks
// until shutdown is triggered. Uses errgroup for runtime error monitoring
// and shutdown function collection for coordinated cleanup.
func (a *App) Start(ctx context.Context) error {
	// Migration phase: before anything can open the application database
	a.migrateOnce.Do(func() {
		report := a.engine.Run(func() (string, error) {
			return a.cfg.Data.Dir, nil
		})
		a.holder.Set(report)
		slog.InfoContext(ctx, "startup migration evaluated",
			"legacy_detected", report.LegacyPathDetected,
			"attempted", report.MigrationAttempted,
			"completed", report.MigrationCompleted,
			"error", report.MigrationError)
	})

	g, gCtx := errgroup.WithContext(ctx)

	address := a.cfg.Server.Host + ":" + strconv.FormatUint(uint64(a.cfg.Server.Port), 10)
	var shutdownFuncs []func(context.Context) error

	// Startup phase: Start services
	slog.InfoContext(gCtx, "starting ipc server", "address", address)
	serverErrCh, err := a.server.Start(gCtx, address)
	if err != nil {
		return fmt.Errorf("ipc server startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, a.server.Shutdown)

	// Monitor runtime errors - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err := <-serverErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "ipc server runtime error", "error", err)
				return fmt.Errorf("ipc server: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	slog.InfoContext(gCtx, "application ready", "address", address)

	runtimeErr := g.Wait()

	slog.InfoContext(gCtx, "shutting down services")

	// Shutdown phase: Stop all services
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Shutdown.Timeout)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("application stopped")
	return nil
}
