// Package logger provides structured logging functionality for the application.
//
// It builds JSON slog loggers with configurable levels, scrubs sensitive
// attributes through the redact package, and carries request-scoped loggers
// through context.Context.
package logger
