// Package logging provides structured logging with zerolog for hostkit
// services. It supports configurable log levels, output formats
// (JSON/console), and context propagation so request-scoped loggers flow
// through handler chains.
//
// Example usage:
//
//	cfg := config.LogConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//	logger := logging.New(cfg)
//	logger.Info().Str("probe", "postgres").Msg("probe registered")
package logging

// Standard field names for structured logging.
// These constants ensure consistent field naming across all services.
const (
	// ServiceName is the field name for the service generating the log.
	ServiceName = "service_name"

	// InstanceID is the field name for the host instance identifier.
	InstanceID = "instance_id"

	// Component is the field name for the component/package generating the log.
	Component = "component"

	// Probe is the field name for the health probe a log event concerns.
	Probe = "probe"

	// Status is the field name for a health evaluation status.
	Status = "status"

	// Error is the field name for error information.
	Error = "error"

	// RequestID is the field name for HTTP request ID.
	RequestID = "request_id"

	// Method is the field name for HTTP method.
	Method = "method"

	// Path is the field name for HTTP path.
	Path = "path"

	// StatusCode is the field name for HTTP status code.
	StatusCode = "status_code"

	// Duration is the field name for operation duration.
	Duration = "duration_ms"
)

// Context keys for storing values in context.Context.
const (
	// loggerKey is the context key for storing logger instances.
	loggerKey = "hostkit.logger"

	// requestIDKey is the context key for storing request IDs.
	requestIDKey = "hostkit.request_id"
)
