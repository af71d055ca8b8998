package library

import "strings"

// keySeparator joins the key components. It matches the separator used by
// every clerk implementation sharing the rating file.
const keySeparator = "|||"

// Key identifies an album for rating purposes. Keys are opaque: they are
// compared and stored, never parsed apart.
type Key string

// KeyFor derives the album key from already-coerced components. Any empty
// component means the record cannot be identified and has no key.
func KeyFor(artist, album, date string) (Key, bool) {
	if artist == "" || album == "" || date == "" {
		return "", false
	}
	return Key(strings.Join([]string{artist, album, date}, keySeparator)), true
}

// DeriveKey coerces each component to its first value and derives the key.
// Absent tags, empty lists, and empty values all yield no key.
func DeriveKey(artist, album, date Tag) (Key, bool) {
	artistValue, ok := artist.First()
	if !ok {
		return "", false
	}
	albumValue, ok := album.First()
	if !ok {
		return "", false
	}
	dateValue, ok := date.First()
	if !ok {
		return "", false
	}
	return KeyFor(artistValue, albumValue, dateValue)
}

// TrackKey derives the album key for a raw daemon record. The album artist
// tag is preferred; the plain artist tag is used only when the album artist
// is absent entirely, so an empty album artist value still yields no key. An
// absent date falls back to "0000" before derivation.
func TrackKey(info TrackInfo) (Key, bool) {
	artist := info.AlbumArtist
	if artist.IsAbsent() {
		artist = info.Artist
	}
	date := info.Date
	if date.IsAbsent() {
		date = Scalar(defaultDate)
	}
	return DeriveKey(artist, info.Album, date)
}

// defaultDate substitutes for an absent date tag so undated albums keep a
// stable identity.
const defaultDate = "0000"
