// Package olcart implements a concurrent, in-memory, ordered key-value
// index over fixed-width 8-byte keys and 8-byte (uint64) payloads, backed
// by an adaptive radix tree (ART) with optimistic lock coupling (OLC).
//
// Reads never block writers and writers never block readers: every lookup
// and range scan is an optimistic, lock-free read section that validates
// itself against per-node version counters and restarts on contention,
// while mutations take narrow, short-lived write locks on only the nodes
// they touch. Memory for replaced or removed nodes is reclaimed through
// epoch-based deferral (internal/epoch), never while a concurrent reader
// might still observe it.
//
// A Tree also supports serializing its contents to a compact, read-only
// snapshot format (Tree.ToCompactSnapshot) and reopening that snapshot for
// allocation-free presence checks (SnapshotOpen, which returns a Reader).
package olcart
