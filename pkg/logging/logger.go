package logging

import (
	"context"
)

// Level represents log severity
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Field keys used consistently across a comparison run's pipeline
// stages, so a run's log lines can be filtered/joined on run_id or
// link_id regardless of which stage emitted them.
const (
	FieldRunID  = "run_id"
	FieldStage  = "stage"
	FieldLinkID = "link_id"
	FieldPath   = "path"
)

// Logger defines the interface for logging.
// Implementations: FileLogger (JSON or text output) and NullLogger.
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, msg string, fields Fields)

	// Info logs an info message
	Info(ctx context.Context, msg string, fields Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, msg string, fields Fields)

	// Error logs an error message
	Error(ctx context.Context, msg string, err error, fields Fields)

	// WithFields returns a logger with additional fields
	WithFields(fields Fields) Logger

	// Close flushes and closes the logger
	Close() error
}

// ForRun scopes logger to one run, attaching run_id to every field set
// that logger produces from here on.
func ForRun(logger Logger, runID string) Logger {
	return logger.WithFields(Fields{FieldRunID: runID})
}

// ForStage scopes logger to one pipeline stage (indexing,
// fingerprinting, matching, comparing).
func ForStage(logger Logger, stage string) Logger {
	return logger.WithFields(Fields{FieldStage: stage})
}
