// Package main hosts the clerk CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into menu-driven
// album and track selection, play queue changes, rating updates, cache
// rebuilds, and configuration scaffolding. It centralizes configuration
// resolution, daemon connection setup, and logging so subcommands can focus
// on the selection flows.
//
// Keep this package lean: cache derivation, rating rules, and queue
// semantics live in the internal packages; commands here wire flags and
// menus to those components and format their results.
package main
