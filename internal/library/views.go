package library

import (
	"fmt"

	"github.com/carnager/clerk-modular/internal/cachefile"
)

// View names accepted by LoadAlbums.
const (
	ViewAlbums = "album"
	ViewLatest = "latest"
)

// LoadAlbums reads one of the two album views from the cache directory. A
// missing file yields an empty view.
func LoadAlbums(store *cachefile.Store, view string) ([]Album, error) {
	var name string
	switch view {
	case ViewAlbums, "":
		name = cachefile.AlbumCache
	case ViewLatest:
		name = cachefile.LatestCache
	default:
		return nil, fmt.Errorf("unknown album view %q", view)
	}
	var albums []Album
	if err := store.Load(name, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// LoadTracks reads the track view from the cache directory. A missing file
// yields an empty view.
func LoadTracks(store *cachefile.Store) ([]Track, error) {
	var tracks []Track
	if err := store.Load(cachefile.TracksCache, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Stale reports whether the cache set must be rebuilt. Only file presence is
// inspected: any missing view or rating file marks the whole set stale.
func Stale(store *cachefile.Store) bool {
	names := append([]string{}, cachefile.ViewCaches...)
	names = append(names, cachefile.RatingsCache)
	return store.MissingAny(names...)
}
