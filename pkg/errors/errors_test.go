package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

// TestPermanentError verifies construction, message formatting, and detection.
func TestPermanentError(t *testing.T) {
	cause := stderrors.New("bad dsn")
	err := NewPermanent("cannot parse configuration", cause)

	if err.Error() != "cannot parse configuration: bad dsn" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !IsPermanent(err) {
		t.Error("IsPermanent must detect a PermanentError")
	}
	if IsTemporary(err) {
		t.Error("a permanent error must not be temporary")
	}
	if !stderrors.Is(err, cause) {
		t.Error("cause must be reachable through Unwrap")
	}
}

// TestTemporaryError verifies detection through wrapping.
func TestTemporaryError(t *testing.T) {
	err := NewTemporary("broker unreachable", nil)
	wrapped := fmt.Errorf("probe failed: %w", err)

	if !IsTemporary(wrapped) {
		t.Error("IsTemporary must detect a wrapped TemporaryError")
	}
	if err.Error() != "broker unreachable" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

// TestConfigError verifies the field-qualified message format.
func TestConfigError(t *testing.T) {
	err := NewConfig("health.probes.db.failure_threshold", "must be >= 1")

	want := "invalid configuration: health.probes.db.failure_threshold must be >= 1"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	if !IsConfig(err) {
		t.Error("IsConfig must detect a ConfigError")
	}

	var ce *ConfigError
	if !stderrors.As(err, &ce) {
		t.Fatal("expected *ConfigError")
	}
	if ce.Field() != "health.probes.db.failure_threshold" {
		t.Errorf("unexpected field: %q", ce.Field())
	}
}

// TestConfigErrorWithCause verifies the cause is appended and unwrappable.
func TestConfigErrorWithCause(t *testing.T) {
	cause := stderrors.New("unknown readiness threshold \"sometimes\"")
	err := NewConfigWithCause("health.probes.db.readiness_threshold", "is invalid", cause)

	if !stderrors.Is(err, cause) {
		t.Error("cause must be reachable through Unwrap")
	}
	if !IsConfig(err) {
		t.Error("IsConfig must detect the error")
	}
}

// TestDetectorsOnPlainErrors verifies classification never misfires.
func TestDetectorsOnPlainErrors(t *testing.T) {
	err := stderrors.New("plain")
	if IsPermanent(err) || IsTemporary(err) || IsConfig(err) {
		t.Error("plain errors must not be classified")
	}
	if IsPermanent(nil) || IsTemporary(nil) || IsConfig(nil) {
		t.Error("nil must not be classified")
	}
}
