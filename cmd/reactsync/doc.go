// Package main hosts the reactsync CLI.
//
// The Cobra command tree exposes the sync decision engine (threshold, seek
// mapping, single decisions), an offline session simulator, the resume
// progress store, subtitle conversion and configuration scaffolding.
// Configuration is resolved lazily so utility commands work without a config
// file.
package main
