package testsupport

import (
	"testing"

	"github.com/carnager/clerk-modular/internal/cachefile"
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/logging"
)

// SeedViews writes the canonical cache corpus into dataDir: album A/X/2020
// rated 7 with the track "opener", album B/Y/2021 unrated with the track
// "closer". The latest view lists the 2021 album first and is re-numbered
// from zero like every view.
func SeedViews(t testing.TB, dataDir string) {
	t.Helper()

	albums := []library.Album{
		{Artist: library.Scalar("A"), Album: library.Scalar("X"), Date: library.Scalar("2020"), ID: "0"},
		{Artist: library.Scalar("B"), Album: library.Scalar("Y"), Date: library.Scalar("2021"), ID: "1"},
	}
	latest := []library.Album{albums[1], albums[0]}
	latest[0].ID, latest[1].ID = "0", "1"
	tracks := []library.Track{
		{
			Number: library.Scalar("1"),
			Title:  library.Scalar("opener"),
			Artist: library.Scalar("A"),
			Album:  library.Scalar("X"),
			Date:   library.Scalar("2020"),
			File:   "x/1.flac",
			ID:     "0",
		},
		{
			Number: library.Scalar("1"),
			Title:  library.Scalar("closer"),
			Artist: library.Scalar("B"),
			Album:  library.Scalar("Y"),
			Date:   library.Scalar("2021"),
			File:   "y/1.flac",
			ID:     "1",
		},
	}

	files := cachefile.NewStore(dataDir, logging.NewNop())
	err := files.SaveAll(
		cachefile.Blob{Name: cachefile.AlbumCache, Value: albums},
		cachefile.Blob{Name: cachefile.LatestCache, Value: latest},
		cachefile.Blob{Name: cachefile.TracksCache, Value: tracks},
		cachefile.Blob{Name: cachefile.RatingsCache, Value: map[string]string{"A|||X|||2020": "7"}},
	)
	if err != nil {
		t.Fatalf("seed views: %v", err)
	}
}
