// Package store provides the persistence port for engine state snapshots
// and its durable and in-memory implementations.
//
// Engines persist a serialized snapshot of their state after every
// successful mutation, each under its own namespaced key. In-memory state
// is the source of truth; the store is a best-effort mirror that lets the
// next session restore where the last one left off.
//
// # Snapshot envelope
//
// Payloads are versioned JSON envelopes:
//
//	{"schema_version": 1, "state": {...}}
//
// Version 0 payloads (bare state JSON predating the envelope) are migrated
// on load. Payloads with a version newer than this build supports are
// rejected with a VersionError rather than decoded loosely.
//
// # SQLite configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - single connection: SQLite supports one writer at a time
package store
