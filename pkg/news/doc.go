// Package news defines the core domain types for TrendRadar: hot-list
// items, per-platform snapshots, calendar day keys, and weight scoring.
//
// A Snapshot is one capture of a platform's hot list at a point in time.
// Snapshots are keyed by calendar Day ("2006-01-02"); a day usually holds
// several snapshots per platform as the crawler re-captures the list.
//
// The package has zero external dependencies (Go standard library only)
// and performs no I/O. Date queries accept both natural language ("today",
// "yesterday", "3 days ago" and the Chinese forms the upstream hot lists
// use: 今天, 昨天, 前天, N天前) and explicit dates ("2006-01-02",
// "2006/01/02").
package news
