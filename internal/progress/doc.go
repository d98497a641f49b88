// Package progress persists resume records for synchronized stream pairs.
//
// Each record is keyed by the pair of stream signatures and carries the sync
// delay, the base position, the react window layout and both volumes. Records
// live in a SQLite database under the configured state directory; saves are
// followed by pruning so only recent pairs (bounded by TTL and count) remain.
package progress
