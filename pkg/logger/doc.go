// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package, emitting JSON in prod and
// human-readable text elsewhere.
package logger
