// Package storage defines the snapshot Archive interface and utilities
// shared across its implementations: sentinel errors and common query
// helpers.
//
// Two adapters implement Archive: memory (day-keyed, bounded retention,
// lost on restart) and postgres (pgx pool, JSONB items, embedded
// migrations). The crawler writes snapshots through the Archive; the MCP
// tools read through it.
package storage
