// Package server assembles the TrendRadar HTTP surface.
//
// The MCP endpoint is served over the streamable HTTP transport at a
// configurable path (default /mcp). Around it the package mounts the
// operational endpoints (/healthz, /readyz, and the Prometheus metrics
// endpoint) and applies the middleware chain: panic recovery, request ID
// assignment (X-Request-ID), structured request logging via log/slog,
// request metrics, the shared-password gate, and a request body limit.
//
// The operational endpoints bypass the gate so probes and scrapers work
// without credentials. Everything else, the MCP endpoint included, is
// rejected with a 403 when the gate is enabled and no valid password
// accompanies the request.
//
// In stdio deployments this package is not used; the MCP server runs
// directly over the process's standard streams.
package server
