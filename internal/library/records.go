package library

import "time"

// TrackInfo is a raw per-song record as reported by the daemon, before any
// view normalization.
type TrackInfo struct {
	File         string
	LastModified time.Time
	AlbumArtist  Tag
	Artist       Tag
	Album        Tag
	Date         Tag
	Title        Tag
	Number       Tag
}

// Album is one record of the album and latest views. The artist field holds
// the album artist with the plain artist already substituted where needed;
// the date field is never absent.
type Album struct {
	Artist Tag    `msgpack:"albumartist"`
	Album  Tag    `msgpack:"album"`
	Date   Tag    `msgpack:"date"`
	ID     string `msgpack:"id"`
}

// Key derives the album's rating key.
func (a Album) Key() (Key, bool) {
	return DeriveKey(a.Artist, a.Album, a.Date)
}

// Track is one record of the track view.
type Track struct {
	Number Tag    `msgpack:"track"`
	Title  Tag    `msgpack:"title"`
	Artist Tag    `msgpack:"artist"`
	Album  Tag    `msgpack:"album"`
	Date   Tag    `msgpack:"date"`
	File   string `msgpack:"file"`
	ID     string `msgpack:"id"`
}

// Key derives the rating key of the track's album.
func (t Track) Key() (Key, bool) {
	return DeriveKey(t.Artist, t.Album, t.Date)
}
