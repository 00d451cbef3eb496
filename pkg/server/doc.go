// Package server implements the CIRRUS portal HTTP daemon.
//
// The server exposes the chart generator, the hosted application listing,
// aggregated uptime status, the embedded SLA page, and the hosting request
// intake. All API routes pass through a shared middleware chain providing
// Prometheus metrics, request IDs, panic recovery, rate limiting, and
// request logging. /health, /ready, and /metrics bypass rate limiting so
// probes and scrapes never compete with user traffic.
//
// Configuration comes from environment variables (PORT, LOG_LEVEL,
// JIRA_PAT, APPS_FILE, STATUS_MONITORS_FILE, SHUTDOWN_TIMEOUT_SECONDS)
// with defaults suitable for the cluster deployment.
package server
