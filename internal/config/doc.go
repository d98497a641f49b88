// Package config loads, normalizes, and validates reactsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// REACTSYNC_STATE_DIR. The Config type centralizes the knobs the sync
// coordinator, progress store, and CLI need so they are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
