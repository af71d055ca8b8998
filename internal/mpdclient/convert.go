package mpdclient

import (
	"strconv"
	"strings"
	"time"

	"github.com/fhs/gompd/v2/mpd"

	"github.com/carnager/clerk-modular/internal/library"
)

// tagResponseKeys maps lowercase MPD tag names to the capitalized keys the
// daemon uses in responses.
var tagResponseKeys = map[string]string{
	"albumartist":     "AlbumArtist",
	"albumartistsort": "AlbumArtistSort",
	"artist":          "Artist",
	"artistsort":      "ArtistSort",
	"album":           "Album",
	"albumsort":       "AlbumSort",
	"title":           "Title",
	"track":           "Track",
	"genre":           "Genre",
	"date":            "Date",
	"composer":        "Composer",
	"performer":       "Performer",
	"conductor":       "Conductor",
	"label":           "Label",
}

func responseKey(tag string) string {
	if key, ok := tagResponseKeys[strings.ToLower(tag)]; ok {
		return key
	}
	return tag
}

// trackInfoFromAttrs converts one song response into a raw track record.
// Absent tags stay absent; the view builder applies fallbacks and defaults.
func trackInfoFromAttrs(attrs mpd.Attrs) library.TrackInfo {
	info := library.TrackInfo{
		File:        attrs["file"],
		AlbumArtist: tagFromAttrs(attrs, "AlbumArtist"),
		Artist:      tagFromAttrs(attrs, "Artist"),
		Album:       tagFromAttrs(attrs, "Album"),
		Date:        tagFromAttrs(attrs, "Date"),
		Title:       tagFromAttrs(attrs, "Title"),
		Number:      tagFromAttrs(attrs, "Track"),
	}
	if raw, ok := attrs["Last-Modified"]; ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			info.LastModified = ts
		}
	}
	return info
}

func tagFromAttrs(attrs mpd.Attrs, key string) library.Tag {
	value, ok := attrs[key]
	if !ok {
		return library.NoTag()
	}
	return library.Scalar(value)
}

func attrInt(attrs mpd.Attrs, key string, fallback int) int {
	value, ok := attrs[key]
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func attrSeconds(attrs mpd.Attrs, key string) time.Duration {
	value, ok := attrs[key]
	if !ok {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return time.Duration(parsed * float64(time.Second))
}
