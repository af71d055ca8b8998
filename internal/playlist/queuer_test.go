package playlist

import (
	"context"
	"strings"
	"testing"

	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/logging"
)

type addCall struct {
	uri string
	pos int
}

type fakePlayer struct {
	added    []addCall
	played   []int
	cleared  int
	current  int
	clearErr error

	tags  map[string][]string
	finds map[string][]library.TrackInfo

	nextID int
}

func (f *fakePlayer) Clear(context.Context) error {
	f.cleared++
	return f.clearErr
}

func (f *fakePlayer) AddID(_ context.Context, uri string, pos int) (int, error) {
	f.added = append(f.added, addCall{uri: uri, pos: pos})
	id := 100 + f.nextID
	f.nextID++
	return id, nil
}

func (f *fakePlayer) PlayID(_ context.Context, id int) error {
	f.played = append(f.played, id)
	return nil
}

func (f *fakePlayer) CurrentPosition(context.Context) (int, error) {
	return f.current, nil
}

func (f *fakePlayer) FindTracks(_ context.Context, pairs ...string) ([]library.TrackInfo, error) {
	return f.finds[strings.Join(pairs, "|")], nil
}

func (f *fakePlayer) ListTag(_ context.Context, tag string) ([]string, error) {
	return f.tags[tag], nil
}

func newTestQueuer(player *fakePlayer) *Queuer {
	cfg := config.Default()
	cfg.Library.RandomTrackCount = 3
	queuer := NewQueuer(player, &cfg, logging.NewNop())
	queuer.intn = func(int) int { return 0 }
	return queuer
}

func track(file, album, date string) library.TrackInfo {
	return library.TrackInfo{
		File:  file,
		Album: library.Scalar(album),
		Date:  library.Scalar(date),
	}
}

func TestQueueTracksAddAppends(t *testing.T) {
	player := &fakePlayer{current: -1}
	queuer := newTestQueuer(player)

	count, err := queuer.QueueTracks(context.Background(), []string{"a.flac", "b.flac"}, ModeAdd)
	if err != nil {
		t.Fatalf("QueueTracks: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	want := []addCall{{"a.flac", -1}, {"b.flac", -1}}
	if len(player.added) != 2 || player.added[0] != want[0] || player.added[1] != want[1] {
		t.Fatalf("added = %v, want %v", player.added, want)
	}
	if player.cleared != 0 || len(player.played) != 0 {
		t.Fatalf("add mode must not clear or play, got cleared=%d played=%v", player.cleared, player.played)
	}
}

func TestQueueTracksReplaceClearsAndPlays(t *testing.T) {
	player := &fakePlayer{current: -1}
	queuer := newTestQueuer(player)

	if _, err := queuer.QueueTracks(context.Background(), []string{"a.flac", "b.flac"}, ModeReplace); err != nil {
		t.Fatalf("QueueTracks: %v", err)
	}
	if player.cleared != 1 {
		t.Fatalf("cleared = %d, want 1", player.cleared)
	}
	if len(player.played) != 1 || player.played[0] != 100 {
		t.Fatalf("played = %v, want first queued id", player.played)
	}
}

func TestQueueTracksInsertAfterCurrent(t *testing.T) {
	player := &fakePlayer{current: 4}
	queuer := newTestQueuer(player)

	if _, err := queuer.QueueTracks(context.Background(), []string{"a.flac", "b.flac"}, ModeInsert); err != nil {
		t.Fatalf("QueueTracks: %v", err)
	}
	want := []addCall{{"a.flac", 5}, {"b.flac", 6}}
	if len(player.added) != 2 || player.added[0] != want[0] || player.added[1] != want[1] {
		t.Fatalf("added = %v, want %v", player.added, want)
	}
	if player.cleared != 0 {
		t.Fatal("insert must not clear the queue")
	}
	if len(player.played) != 1 || player.played[0] != 100 {
		t.Fatalf("played = %v, want first inserted id", player.played)
	}
}

func TestQueueTracksInsertWithoutCurrentAppends(t *testing.T) {
	player := &fakePlayer{current: -1}
	queuer := newTestQueuer(player)

	if _, err := queuer.QueueTracks(context.Background(), []string{"a.flac"}, ModeInsert); err != nil {
		t.Fatalf("QueueTracks: %v", err)
	}
	if len(player.added) != 1 || player.added[0].pos != -1 {
		t.Fatalf("added = %v, want append position", player.added)
	}
	if len(player.played) != 1 {
		t.Fatalf("played = %v, want one song", player.played)
	}
}

func TestQueueTracksNothingToQueue(t *testing.T) {
	player := &fakePlayer{current: -1}
	queuer := newTestQueuer(player)

	if _, err := queuer.QueueTracks(context.Background(), []string{"", ""}, ModeAdd); err == nil {
		t.Fatal("expected an error for an empty selection")
	}
}

func TestQueueAlbumsResolvesTracks(t *testing.T) {
	player := &fakePlayer{
		current: -1,
		finds: map[string][]library.TrackInfo{
			"albumartist|A|album|X|date|2020": {track("x/1.flac", "X", "2020"), track("x/2.flac", "X", "2020")},
		},
	}
	queuer := newTestQueuer(player)
	album := library.Album{
		Artist: library.Scalar("A"),
		Album:  library.Scalar("X"),
		Date:   library.Scalar("2020"),
	}

	count, err := queuer.QueueAlbums(context.Background(), []library.Album{album}, ModeAdd)
	if err != nil {
		t.Fatalf("QueueAlbums: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if player.added[0].uri != "x/1.flac" || player.added[1].uri != "x/2.flac" {
		t.Fatalf("added = %v", player.added)
	}
}

func TestQueueAlbumsFallsBackToArtistTag(t *testing.T) {
	player := &fakePlayer{
		current: -1,
		finds: map[string][]library.TrackInfo{
			"artist|A|album|X|date|2020": {track("x/1.flac", "X", "2020")},
		},
	}
	queuer := newTestQueuer(player)
	album := library.Album{
		Artist: library.Scalar("A"),
		Album:  library.Scalar("X"),
		Date:   library.Scalar("2020"),
	}

	count, err := queuer.QueueAlbums(context.Background(), []library.Album{album}, ModeAdd)
	if err != nil {
		t.Fatalf("QueueAlbums: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestQueueAlbumsUnknownAlbumErrors(t *testing.T) {
	player := &fakePlayer{current: -1}
	queuer := newTestQueuer(player)
	album := library.Album{
		Artist: library.Scalar("A"),
		Album:  library.Scalar("X"),
		Date:   library.Scalar("2020"),
	}

	if _, err := queuer.QueueAlbums(context.Background(), []library.Album{album}, ModeAdd); err == nil {
		t.Fatal("expected an error for an album absent from the database")
	}
	if len(player.added) != 0 {
		t.Fatalf("nothing must be queued, got %v", player.added)
	}
}

func TestRandomAlbumReplacesQueue(t *testing.T) {
	player := &fakePlayer{
		current: -1,
		tags:    map[string][]string{"albumartist": {"A", "B"}},
		finds: map[string][]library.TrackInfo{
			"albumartist|A": {
				track("x/1.flac", "X", "2020"),
				track("x/2.flac", "X", "2020"),
				track("y/1.flac", "Y", "2021"),
			},
		},
	}
	queuer := newTestQueuer(player)

	queued, err := queuer.RandomAlbum(context.Background())
	if err != nil {
		t.Fatalf("RandomAlbum: %v", err)
	}
	if queued.Artist != "A" || queued.Album != "X" || queued.Date != "2020" {
		t.Fatalf("queued = %+v", queued)
	}
	if queued.Tracks != 2 {
		t.Fatalf("Tracks = %d, want 2", queued.Tracks)
	}
	if player.cleared != 1 {
		t.Fatalf("cleared = %d, want 1", player.cleared)
	}
	if len(player.added) != 2 || player.added[0].uri != "x/1.flac" {
		t.Fatalf("added = %v", player.added)
	}
	if len(player.played) != 1 {
		t.Fatalf("played = %v", player.played)
	}
}

func TestArtistsListsTagValues(t *testing.T) {
	player := &fakePlayer{
		current: -1,
		tags:    map[string][]string{"albumartist": {"B", "a", "A"}},
	}
	queuer := newTestQueuer(player)

	values, err := queuer.Artists(context.Background())
	if err != nil {
		t.Fatalf("Artists: %v", err)
	}
	// Daemon order comes back untouched.
	want := []string{"B", "a", "A"}
	if len(values) != len(want) {
		t.Fatalf("values = %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("values[%d] = %q, want %q", i, values[i], want[i])
		}
	}
}

func TestRandomAlbumOfQueuesNamedArtist(t *testing.T) {
	player := &fakePlayer{
		current: -1,
		finds: map[string][]library.TrackInfo{
			"albumartist|B": {
				track("y/1.flac", "Y", "2021"),
				track("y/2.flac", "Y", "2021"),
			},
		},
	}
	queuer := newTestQueuer(player)

	queued, err := queuer.RandomAlbumOf(context.Background(), "B")
	if err != nil {
		t.Fatalf("RandomAlbumOf: %v", err)
	}
	if queued.Artist != "B" || queued.Album != "Y" || queued.Tracks != 2 {
		t.Fatalf("queued = %+v", queued)
	}

	if _, err := queuer.RandomAlbumOf(context.Background(), "Nobody"); err == nil {
		t.Fatal("expected an error for an artist without tracks")
	}
}

func TestRandomTracksSpreadsAcrossValues(t *testing.T) {
	player := &fakePlayer{
		current: -1,
		tags:    map[string][]string{"albumartist": {"A", "B"}},
		finds: map[string][]library.TrackInfo{
			"albumartist|A": {track("a/1.flac", "X", "2020")},
			"albumartist|B": {track("b/1.flac", "Y", "2021"), track("b/2.flac", "Y", "2021")},
		},
	}
	queuer := newTestQueuer(player)

	count, err := queuer.RandomTracks(context.Background())
	if err != nil {
		t.Fatalf("RandomTracks: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	// A zero-returning picker swaps the two values, then wraps around.
	wantFiles := []string{"b/1.flac", "a/1.flac", "b/1.flac"}
	for i, call := range player.added {
		if call.uri != wantFiles[i] {
			t.Fatalf("added[%d] = %q, want %q", i, call.uri, wantFiles[i])
		}
	}
	if player.cleared != 1 {
		t.Fatalf("cleared = %d, want 1", player.cleared)
	}
}

func TestSetTrackCountOverridesConfig(t *testing.T) {
	player := &fakePlayer{
		current: -1,
		tags:    map[string][]string{"albumartist": {"A", "B"}},
		finds: map[string][]library.TrackInfo{
			"albumartist|A": {track("a/1.flac", "X", "2020")},
			"albumartist|B": {track("b/1.flac", "Y", "2021")},
		},
	}
	queuer := newTestQueuer(player)
	queuer.SetTrackCount(2)
	queuer.SetTrackCount(0)

	count, err := queuer.RandomTracks(context.Background())
	if err != nil {
		t.Fatalf("RandomTracks: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestRandomTracksWithoutValuesErrors(t *testing.T) {
	player := &fakePlayer{current: -1}
	queuer := newTestQueuer(player)

	if _, err := queuer.RandomTracks(context.Background()); err == nil {
		t.Fatal("expected an error when the database has no artist values")
	}
}
