// Package errors provides structured error types for the hostkit framework.
// It defines error categories (Permanent, Temporary, Config) that enable
// consistent error handling across probes, configuration loading, and the
// health engine.
//
// Example usage:
//
//	if err := conn.Ping(ctx); err != nil {
//	    return errors.NewTemporary("broker unreachable", err)
//	}
//
//	if cfg.FailureThreshold < 1 {
//	    return errors.NewConfig("health.probes.broker.failure_threshold", "must be >= 1")
//	}
package errors

import (
	stderrors "errors"
	"fmt"
)

// PermanentError represents an error that won't succeed even if retried.
// Examples: invalid options, programming errors, unsupported configuration.
type PermanentError struct {
	msg   string
	cause error
}

// NewPermanent creates a new permanent error with the given message and optional cause.
func NewPermanent(msg string, cause error) error {
	return &PermanentError{msg: msg, cause: cause}
}

func (e *PermanentError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *PermanentError) Unwrap() error {
	return e.cause
}

// TemporaryError represents an error that might succeed if retried.
// Examples: network timeouts, a dependency still starting up, rate limiting.
// Probe implementations should return temporary errors for transient I/O
// failures so that their internal retry helpers can distinguish them.
type TemporaryError struct {
	msg   string
	cause error
}

// NewTemporary creates a new temporary error with the given message and optional cause.
func NewTemporary(msg string, cause error) error {
	return &TemporaryError{msg: msg, cause: cause}
}

func (e *TemporaryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *TemporaryError) Unwrap() error {
	return e.cause
}

// ConfigError represents a configuration binding or validation failure.
// It carries the fully-qualified field name (e.g. "health.probes.db.timeout")
// so operators can locate the offending setting without guessing.
type ConfigError struct {
	field string
	msg   string
	cause error
}

// NewConfig creates a new configuration error for the given field.
func NewConfig(field, msg string) error {
	return &ConfigError{field: field, msg: msg}
}

// NewConfigWithCause creates a new configuration error with an underlying cause.
func NewConfigWithCause(field, msg string, cause error) error {
	return &ConfigError{field: field, msg: msg, cause: cause}
}

func (e *ConfigError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid configuration: %s %s: %v", e.field, e.msg, e.cause)
	}
	return fmt.Sprintf("invalid configuration: %s %s", e.field, e.msg)
}

func (e *ConfigError) Unwrap() error {
	return e.cause
}

// Field returns the fully-qualified configuration field name.
func (e *ConfigError) Field() string {
	return e.field
}

// IsPermanent returns true if the error or any error in its chain is a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return stderrors.As(err, &pe)
}

// IsTemporary returns true if the error or any error in its chain is a TemporaryError.
func IsTemporary(err error) bool {
	var te *TemporaryError
	return stderrors.As(err, &te)
}

// IsConfig returns true if the error or any error in its chain is a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return stderrors.As(err, &ce)
}
