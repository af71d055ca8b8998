// Package api joins the cached library views with the rating list into the
// entry types both frontends render: the menu lines of the clerk CLI and the
// JSON payloads of the clerkd HTTP daemon.
//
// # Key Types
//
// AlbumEntry/TrackEntry: transport representation of one view record with its
// current rating attached ("" when unrated).
//
// CacheStatus: presence, age, and record counts of the cache file set.
//
// # Design Notes
//
// Reads always come fresh from the cache files, so concurrent rating updates
// and rebuilds are visible to the next call without invalidation logic. A
// single-flight guard serializes rebuilds; callers losing the race get
// ErrRebuildRunning instead of a second scan.
package api
