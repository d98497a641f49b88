// Package logging assembles structured slog loggers and formatting helpers used
// across reactsync.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers so session code can tag every line with its
// session id and pair key. Loggers built from config also append JSON lines
// to a daily file in the log directory and prune files past the retention
// window. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
