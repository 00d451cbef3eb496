// Package uptime aggregates application availability from uptime-kuma
// status pages. Monitor identities are scraped from the public status page
// HTML and per-monitor state is read from the badge endpoint. Upstream
// failures degrade a page to UNKNOWN rather than failing the request.
package uptime
