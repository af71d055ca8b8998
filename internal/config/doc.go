// Package config loads, normalizes, and validates clerk configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MPD_HOST. The Config type centralizes every knob the CLI and the clerkd
// daemon need, so the cache directory, daemon address, and menu command are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
