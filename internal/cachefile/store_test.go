package cachefile_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/carnager/clerk-modular/internal/cachefile"
	"github.com/carnager/clerk-modular/internal/logging"
)

type testRecord struct {
	Artist string `msgpack:"albumartist"`
	Album  string `msgpack:"album"`
	Date   string `msgpack:"date"`
	ID     string `msgpack:"id"`
}

func newStore(t *testing.T) *cachefile.Store {
	t.Helper()
	return cachefile.NewStore(t.TempDir(), logging.NewNop())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newStore(t)

	want := []testRecord{
		{Artist: "Kraftwerk", Album: "Computerwelt", Date: "1981", ID: "0"},
		{Artist: "Neu!", Album: "Neu! 75", Date: "1975", ID: "1"},
	}
	if err := store.Save(cachefile.AlbumCache, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var got []testRecord
	if err := store.Load(cachefile.AlbumCache, &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestSaveLoadRoundTripMap(t *testing.T) {
	store := newStore(t)

	want := map[string]string{
		"Kraftwerk|||Computerwelt|||1981": "9",
		"Neu!|||Neu! 75|||1975":           "7",
	}
	if err := store.Save(cachefile.RatingsCache, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var got map[string]string
	if err := store.Load(cachefile.RatingsCache, &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %v want %v", got, want)
	}
}

func TestSaveLoadRoundTripEmptyCollections(t *testing.T) {
	store := newStore(t)

	if err := store.Save(cachefile.AlbumCache, []testRecord{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	var albums []testRecord
	if err := store.Load(cachefile.AlbumCache, &albums); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(albums) != 0 {
		t.Fatalf("expected empty slice, got %+v", albums)
	}

	if err := store.Save(cachefile.RatingsCache, map[string]string{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	var ratings map[string]string
	if err := store.Load(cachefile.RatingsCache, &ratings); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(ratings) != 0 {
		t.Fatalf("expected empty map, got %v", ratings)
	}
}

func TestLoadMissingFileLeavesZeroValue(t *testing.T) {
	store := newStore(t)

	var got []testRecord
	if err := store.Load(cachefile.TracksCache, &got); err != nil {
		t.Fatalf("Load of missing file should not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected zero value, got %+v", got)
	}

	ratings := map[string]string{}
	if err := store.Load(cachefile.RatingsCache, &ratings); err != nil {
		t.Fatalf("Load of missing file should not error: %v", err)
	}
	if len(ratings) != 0 {
		t.Fatalf("expected untouched map, got %v", ratings)
	}
}

func TestLoadEmptyFileLeavesZeroValue(t *testing.T) {
	store := newStore(t)
	if err := os.WriteFile(store.Path(cachefile.AlbumCache), nil, 0o644); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	var got []testRecord
	if err := store.Load(cachefile.AlbumCache, &got); err != nil {
		t.Fatalf("Load of empty file should not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestLoadCorruptFileReturnsErrCorrupt(t *testing.T) {
	store := newStore(t)
	if err := os.WriteFile(store.Path(cachefile.AlbumCache), []byte("not msgpack at all"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	var got []testRecord
	err := store.Load(cachefile.AlbumCache, &got)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !errors.Is(err, cachefile.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestSaveReplacesWholeFile(t *testing.T) {
	store := newStore(t)

	if err := store.Save(cachefile.AlbumCache, []testRecord{{Artist: "a", Album: "b", Date: "1999", ID: "0"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	want := []testRecord{{Artist: "x", Album: "y", Date: "2001", ID: "0"}}
	if err := store.Save(cachefile.AlbumCache, want); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	var got []testRecord
	if err := store.Load(cachefile.AlbumCache, &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected replacement, got %+v", got)
	}
}

func TestSaveAllFailureLeavesExistingFiles(t *testing.T) {
	store := newStore(t)

	want := []testRecord{{Artist: "keep", Album: "me", Date: "1990", ID: "0"}}
	if err := store.Save(cachefile.AlbumCache, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	before, err := os.ReadFile(store.Path(cachefile.AlbumCache))
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}

	// Channels cannot be marshalled, so staging the second blob fails.
	err = store.SaveAll(
		cachefile.Blob{Name: cachefile.AlbumCache, Value: []testRecord{{Artist: "new"}}},
		cachefile.Blob{Name: cachefile.TracksCache, Value: make(chan int)},
	)
	if err == nil {
		t.Fatal("expected SaveAll to fail")
	}

	after, err := os.ReadFile(store.Path(cachefile.AlbumCache))
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("existing cache file changed by failed SaveAll")
	}
	if store.Exists(cachefile.TracksCache) {
		t.Fatal("failed SaveAll must not create new files")
	}

	entries, err := filepath.Glob(filepath.Join(store.Dir(), "*.tmp"))
	if err != nil {
		t.Fatalf("glob temp files: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected staged temp files to be removed, found %v", entries)
	}
}

func TestExistsAndMissingAny(t *testing.T) {
	store := newStore(t)

	if store.Exists(cachefile.AlbumCache) {
		t.Fatal("Exists should be false before save")
	}
	if !store.MissingAny(cachefile.ViewCaches...) {
		t.Fatal("MissingAny should be true before save")
	}

	for _, name := range cachefile.ViewCaches {
		if err := store.Save(name, []testRecord{}); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
	}
	if store.MissingAny(cachefile.ViewCaches...) {
		t.Fatal("MissingAny should be false after saving all views")
	}
	if _, ok := store.ModTime(cachefile.AlbumCache); !ok {
		t.Fatal("ModTime should report saved file")
	}
}
