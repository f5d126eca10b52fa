package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/castlegate-io/hostkit/pkg/logging"
)

// ShutdownConfig configures graceful shutdown behavior.
type ShutdownConfig struct {
	// Timeout is the maximum time to wait for graceful shutdown.
	// After this timeout, services are forcefully stopped.
	Timeout time.Duration

	// Signals is the list of OS signals that trigger shutdown.
	// If empty, defaults to SIGINT and SIGTERM.
	Signals []os.Signal
}

// DefaultShutdownConfig returns sensible default shutdown configuration.
func DefaultShutdownConfig() ShutdownConfig {
	return ShutdownConfig{
		Timeout: 30 * time.Second,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
}

// WaitForShutdown blocks until a shutdown signal is received, then gracefully
// stops the provided services. It handles SIGINT and SIGTERM by default.
//
// Services are stopped in the order provided. If a service fails to stop
// within the timeout, the error is logged but shutdown continues for the
// remaining services.
func WaitForShutdown(ctx context.Context, logger *logging.Logger, services ...Service) {
	WaitForShutdownWithConfig(ctx, DefaultShutdownConfig(), logger, services...)
}

// WaitForShutdownWithConfig is like WaitForShutdown but accepts custom shutdown configuration.
func WaitForShutdownWithConfig(ctx context.Context, cfg ShutdownConfig, logger *logging.Logger, services ...Service) {
	signals := cfg.Signals
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, signals...)

	sig := <-quit
	logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	signal.Stop(quit)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	for _, svc := range services {
		if err := svc.Stop(shutdownCtx); err != nil {
			logger.Error().Err(err).Str("service", svc.Name()).Msg("failed to stop service")
		} else {
			logger.Info().Str("service", svc.Name()).Msg("service stopped")
		}
	}

	logger.Info().Msg("graceful shutdown completed")
}

// CleanupFunc represents a cleanup function to be executed during shutdown.
type CleanupFunc func(context.Context) error

// CleanupHandler manages cleanup functions that should be executed during
// shutdown. Cleanup functions are executed in LIFO order (last registered,
// first executed), mirroring defer semantics.
type CleanupHandler struct {
	cleanups []CleanupFunc
}

// NewCleanupHandler creates a new cleanup handler.
func NewCleanupHandler() *CleanupHandler {
	return &CleanupHandler{
		cleanups: make([]CleanupFunc, 0),
	}
}

// Register adds a cleanup function to be executed during shutdown.
//
// Example:
//
//	cleanup := service.NewCleanupHandler()
//	cleanup.Register(func(ctx context.Context) error {
//	    pool.Close()
//	    return nil
//	})
//	defer cleanup.Execute(ctx)
func (h *CleanupHandler) Register(fn CleanupFunc) {
	h.cleanups = append(h.cleanups, fn)
}

// Execute runs all registered cleanup functions in reverse order (LIFO).
// It continues executing cleanup functions even if some fail.
// Returns the first error encountered.
func (h *CleanupHandler) Execute(ctx context.Context) error {
	var firstErr error
	for i := len(h.cleanups) - 1; i >= 0; i-- {
		if err := h.cleanups[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
