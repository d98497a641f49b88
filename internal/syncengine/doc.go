// Package syncengine decides when and how far to move a reactive stream so it
// stays aligned with a base stream played at a fixed offset.
//
// An Engine holds the per-session sync state (enabled flag, delay, seek and
// interaction markers) and answers polling queries from a coordinator. It
// never schedules work or touches players itself: callers read positions,
// ask for a Decision (or the legacy SyncVideos float), and apply the result.
//
// Engines are not safe for concurrent use. Create one per synchronized pair
// and serialize access from its owner.
package syncengine
