package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"
)

// TestHTTPServiceLifecycle verifies start, serve, and graceful stop.
func TestHTTPServiceLifecycle(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	svc := NewHTTPService("test-http", "127.0.0.1:18080", handler)

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start: %v", err)
	}

	resp, err := http.Get("http://127.0.0.1:18080/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("unexpected body %q", body)
	}

	if err := svc.Health(); err != nil {
		t.Errorf("expected healthy while running: %v", err)
	}

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("failed to stop: %v", err)
	}
	if err := svc.Health(); err == nil {
		t.Error("expected unhealthy after stop")
	}
}

// TestHTTPServiceDoubleStart verifies a second Start fails.
func TestHTTPServiceDoubleStart(t *testing.T) {
	svc := NewHTTPService("test-http", "127.0.0.1:18081", http.NotFoundHandler())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	defer svc.Stop(context.Background())

	if err := svc.Start(context.Background()); err == nil {
		t.Error("second Start must fail")
	}
}

// TestHTTPServiceStopWithoutStart verifies Stop is a safe no-op.
func TestHTTPServiceStopWithoutStart(t *testing.T) {
	svc := NewHTTPService("test-http", "127.0.0.1:18082", http.NotFoundHandler())
	if err := svc.Stop(context.Background()); err != nil {
		t.Errorf("stop without start must be a no-op: %v", err)
	}
}

// TestHTTPServiceInvalidAddress verifies startup errors are surfaced.
func TestHTTPServiceInvalidAddress(t *testing.T) {
	svc := NewHTTPService("test-http", "invalid:address", http.NotFoundHandler())
	if err := svc.Start(context.Background()); err == nil {
		t.Error("expected an error for an unbindable address")
		_ = svc.Stop(context.Background())
	}
}

// TestHTTPServiceOptions verifies functional options are applied.
func TestHTTPServiceOptions(t *testing.T) {
	svc := NewHTTPService("test-http", "127.0.0.1:18083", http.NotFoundHandler(),
		WithReadTimeout(2*time.Second),
		WithWriteTimeout(3*time.Second),
		WithShutdownTimeout(4*time.Second),
		WithMaxHeaderBytes(2048),
	)

	if svc.readTimeout != 2*time.Second || svc.writeTimeout != 3*time.Second {
		t.Errorf("timeouts not applied: %v/%v", svc.readTimeout, svc.writeTimeout)
	}
	if svc.shutdownTimeout != 4*time.Second || svc.maxHeaderBytes != 2048 {
		t.Errorf("options not applied: %v/%d", svc.shutdownTimeout, svc.maxHeaderBytes)
	}
}

// TestCleanupHandlerLIFO verifies cleanup functions run in reverse order and
// all run even when one fails.
func TestCleanupHandlerLIFO(t *testing.T) {
	var order []string
	h := NewCleanupHandler()
	h.Register(func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	h.Register(func(ctx context.Context) error {
		order = append(order, "second")
		return errors.New("second failed")
	})
	h.Register(func(ctx context.Context) error {
		order = append(order, "third")
		return nil
	})

	err := h.Execute(context.Background())
	if err == nil || err.Error() != "second failed" {
		t.Errorf("expected the first failure back, got %v", err)
	}
	if len(order) != 3 || order[0] != "third" || order[2] != "first" {
		t.Errorf("expected LIFO order, got %v", order)
	}
}

// TestDefaultShutdownConfig verifies the defaults.
func TestDefaultShutdownConfig(t *testing.T) {
	cfg := DefaultShutdownConfig()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
	}
	if len(cfg.Signals) != 2 {
		t.Errorf("expected SIGINT and SIGTERM, got %v", cfg.Signals)
	}
}
