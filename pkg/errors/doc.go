// Package errors provides structured error types shared across the portal.
//
// Errors carry a machine-readable code (validation, unknown add-on, upstream
// failure, etc.) so HTTP handlers can map them to responses without string
// matching, plus an optional cause chain and debugging context.
package errors
