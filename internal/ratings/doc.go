// Package ratings owns clerk's album rating list and the per-track rating
// stickers held by the daemon.
//
// Album ratings live in a single msgpack map keyed by the album key from the
// library package. Every mutation is a whole cycle: reload the map from disk,
// apply the change, persist the whole map. The Store serializes these cycles
// so concurrent mutations of different albums both survive; the explicit
// skip value never touches disk at all. A configured listsync hook fires
// after a genuine change and is never allowed to fail the rating itself.
//
// Track ratings are not cached locally; they are written straight to the
// daemon's sticker database through a small interface.
package ratings
