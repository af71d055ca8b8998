package api

import (
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/ratings"
)

// AlbumEntry is one album view record with its rating attached.
type AlbumEntry struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Date   string `json:"date"`
	ID     string `json:"id"`
	Rating string `json:"rating"`
}

// TrackEntry is one track view record with its parent album's rating.
type TrackEntry struct {
	Number string `json:"track"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Date   string `json:"date"`
	File   string `json:"file"`
	ID     string `json:"id"`
	Rating string `json:"rating"`
}

// RatingText renders a stored rating for line output: "r=N" for scores,
// "r=-" when unrated.
func RatingText(rating string) string {
	if rating == "" {
		return "r=-"
	}
	return "r=" + rating
}

func albumEntry(album library.Album, rated map[library.Key]ratings.Rating) AlbumEntry {
	entry := AlbumEntry{
		Artist: album.Artist.Display(),
		Album:  album.Album.Display(),
		Date:   album.Date.Display(),
		ID:     album.ID,
	}
	if key, ok := album.Key(); ok {
		entry.Rating = string(rated[key])
	}
	return entry
}

func trackEntry(track library.Track, rated map[library.Key]ratings.Rating) TrackEntry {
	entry := TrackEntry{
		Number: track.Number.Display(),
		Title:  track.Title.Display(),
		Artist: track.Artist.Display(),
		Album:  track.Album.Display(),
		Date:   track.Date.Display(),
		File:   track.File,
		ID:     track.ID,
	}
	if key, ok := track.Key(); ok {
		entry.Rating = string(rated[key])
	}
	return entry
}
