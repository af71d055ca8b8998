// Package cachefile persists clerk's library views and rating list as
// MessagePack blobs under the data directory.
//
// Files are replaced whole: every save marshals the complete value, writes it
// to a temp file, fsyncs, and renames over the target, so readers never
// observe a partial write. SaveAll extends the same discipline to a set of
// files staged together. A missing file on load is not an error; it simply
// leaves the destination at its zero value. Decode failures wrap ErrCorrupt
// so callers can degrade to an empty view.
//
// The four canonical file names are exported as constants; their on-disk
// format is shared with earlier implementations of clerk.
package cachefile
