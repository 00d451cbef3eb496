// Package logging provides structured logging utilities for the CIRRUS portal.
//
// It wraps the standard library slog package with portal-specific defaults:
// JSON output to stderr, environment-based level configuration (LOG_LEVEL),
// module/version context on every record, and source location tracking for
// debug logs.
//
// Typical usage:
//
//	logging.SetDefaultStructuredLogger("cirrusd", "v1.0.0")
//	slog.Info("processing request", "id", "req-123")
package logging
