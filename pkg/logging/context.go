package logging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/castlegate-io/hostkit/pkg/config"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	loggerContextKey    = contextKey(loggerKey)
	requestIDContextKey = contextKey(requestIDKey)
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext extracts a logger from the context.
// If no logger is found, it returns a default logger.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return enrichLoggerFromContext(ctx, logger)
	}
	return enrichLoggerFromContext(ctx, New(defaultLogConfig()))
}

// defaultLogConfig returns a default log configuration.
func defaultLogConfig() config.LogConfig {
	return config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}
}

// enrichLoggerFromContext adds the request ID from context to the logger.
func enrichLoggerFromContext(ctx context.Context, logger *Logger) *Logger {
	if requestID := GetRequestID(ctx); requestID != "" {
		return logger.WithFields(map[string]interface{}{RequestID: requestID})
	}
	return logger
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}

// Ctx returns a zerolog.Logger that can be used to add fields to a log entry.
// This is a convenience function for getting a context-aware logger.
func Ctx(ctx context.Context) zerolog.Logger {
	return FromContext(ctx).Raw()
}
