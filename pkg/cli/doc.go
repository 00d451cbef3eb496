// Package cli implements the command-line interface for the CIRRUS portal.
//
// # Overview
//
// The cirrus CLI provides the portal's chart generator and server in a
// single binary. Cluster users can generate modular Helm charts locally
// without going through the web form, and operators run the portal API
// server with the serve command.
//
// # Commands
//
// serve - Run the portal HTTP server:
//
//	cirrus serve [--port PORT]
//
// Starts the portal API server with graceful shutdown on SIGINT/SIGTERM.
// Configuration comes from the environment (PORT, APPS_FILE,
// STATUS_MONITORS_FILE, SLA_URL, JIRA_PAT).
//
// generate - Generate a modular Helm chart:
//
//	cirrus generate --name myapp --image myapp:1.2.0 --addon cnpg --set cnpg_instances=3
//
// Generates a deployment-ready Helm chart from the base application
// configuration plus any enabled add-ons. Output can be a local
// directory (default), a zip archive, or an OCI registry push.
//
// addons - List available add-ons:
//
//	cirrus addons [--format yaml|json|table]
//
// Lists the add-ons the generator supports along with the field names
// each one accepts.
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/chart - Chart assembly and the add-on registry
//   - pkg/archive - Zip packaging
//   - pkg/oci - OCI artifact packaging and registry push
//   - pkg/server - Portal HTTP server
//   - pkg/serializers - Output formatting
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NCAR/cirrus-portal/pkg/cli.version=1.0.0'"
package cli
