// Package daemon coordinates the long-running clerkd process.
//
// It wires the MPD client, the cache file store, the view builder, and the
// rating store into a single lifecycle with flock-based locking to prevent
// multiple instances. The daemon serves the HTTP API for web frontends and
// optionally keeps the cached views current by watching MPD database idle
// events.
//
// Keep orchestration logic here: view derivation, rating rules, and queue
// semantics live in their own packages while the daemon focuses on startup,
// shutdown, and request routing.
package daemon
