// Package library implements clerk's metadata core: album identity, the
// cached album/track/latest views, and the scan that builds them from the
// music daemon.
//
// Album identity is a derived key joining artist, album, and date. The album
// artist tag is preferred, the plain artist tag is the fallback, and
// multi-valued tags coerce to their first value; a record missing any
// component has no key and cannot be rated. Keys are opaque identifiers for
// the rating list and are never parsed apart.
//
// The Builder scans the daemon's full library in bounded windows, orders the
// corpus newest-first by modification time, and derives the three views in a
// single pass with view-local dense ids. Views persist together through
// cachefile so a failed build never leaves a partial set behind.
//
// Metadata values are carried as Tag, a three-state type (absent, one value,
// several values) matching what the daemon's protocol can report and what
// earlier cache files may contain.
package library
