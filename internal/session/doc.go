// Package session drives a pair of players with the sync decision engine.
//
// A Coordinator polls both players on the engine's adaptive interval, applies
// corrections to the react stream, keeps the pair paused while either side
// buffers, verifies that correction seeks landed, and periodically saves
// resume progress. User commands (seek, play, pause, delay changes) go through
// the same mutex as the poll so the engine only ever sees serialized access.
package session
