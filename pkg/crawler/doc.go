// Package crawler fetches platform hot lists from a NewsNow-compatible API.
//
// A Client performs single-platform fetches; a Crawler fans fetches out
// across the configured platform set and collects the results into a Batch,
// recording per-platform failures without failing the whole pass. A Runner
// drives periodic crawls and persists the snapshots it collects.
package crawler
