package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/carnager/clerk-modular/internal/cachefile"
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/logging"
	"github.com/carnager/clerk-modular/internal/ratings"
)

// ErrNotFound marks lookups of ids absent from the requested view.
var ErrNotFound = errors.New("not found")

// ErrRebuildRunning is returned when a rebuild is requested while another
// one is still in flight.
var ErrRebuildRunning = errors.New("cache rebuild already running")

// CacheStatus describes the cache file set for status displays.
type CacheStatus struct {
	Albums  int       `json:"albums"`
	Latest  int       `json:"latest"`
	Tracks  int       `json:"tracks"`
	Ratings int       `json:"ratings"`
	BuiltAt time.Time `json:"built_at"`
	Stale   bool      `json:"stale"`
}

// LibraryService answers view queries and coordinates cache rebuilds.
type LibraryService struct {
	store   *cachefile.Store
	builder *library.Builder
	ratings *ratings.Store
	logger  *slog.Logger

	// rebuildMu makes rebuilds single-flight across HTTP requests and the
	// database watcher.
	rebuildMu sync.Mutex
}

// NewLibraryService wires the cache store, view builder, and rating store
// into one facade.
func NewLibraryService(store *cachefile.Store, builder *library.Builder, ratingStore *ratings.Store, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:   store,
		builder: builder,
		ratings: ratingStore,
		logger:  logging.NewComponentLogger(logger, "library"),
	}
}

// Albums returns one of the album views with ratings attached. The filter,
// when non-empty, must be a score and keeps only albums rated exactly that.
func (s *LibraryService) Albums(view, ratingFilter string) ([]AlbumEntry, error) {
	if err := checkRatingFilter(ratingFilter); err != nil {
		return nil, err
	}
	albums, err := library.LoadAlbums(s.store, view)
	if err != nil {
		return nil, err
	}
	rated := s.ratings.All()

	entries := make([]AlbumEntry, 0, len(albums))
	for _, album := range albums {
		entry := albumEntry(album, rated)
		if ratingFilter != "" && entry.Rating != ratingFilter {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Tracks returns the track view with parent album ratings attached.
func (s *LibraryService) Tracks(ratingFilter string) ([]TrackEntry, error) {
	if err := checkRatingFilter(ratingFilter); err != nil {
		return nil, err
	}
	tracks, err := library.LoadTracks(s.store)
	if err != nil {
		return nil, err
	}
	rated := s.ratings.All()

	entries := make([]TrackEntry, 0, len(tracks))
	for _, track := range tracks {
		entry := trackEntry(track, rated)
		if ratingFilter != "" && entry.Rating != ratingFilter {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AlbumByID looks one album up by its view-local id.
func (s *LibraryService) AlbumByID(view, id string) (AlbumEntry, error) {
	albums, err := library.LoadAlbums(s.store, view)
	if err != nil {
		return AlbumEntry{}, err
	}
	for _, album := range albums {
		if album.ID == id {
			return albumEntry(album, s.ratings.All()), nil
		}
	}
	return AlbumEntry{}, fmt.Errorf("album %s in view %q: %w", id, viewName(view), ErrNotFound)
}

// TrackByID looks one track up by its view-local id.
func (s *LibraryService) TrackByID(id string) (TrackEntry, error) {
	tracks, err := library.LoadTracks(s.store)
	if err != nil {
		return TrackEntry{}, err
	}
	for _, track := range tracks {
		if track.ID == id {
			return trackEntry(track, s.ratings.All()), nil
		}
	}
	return TrackEntry{}, fmt.Errorf("track %s: %w", id, ErrNotFound)
}

// AlbumRecordByID returns the raw view record, for queueing.
func (s *LibraryService) AlbumRecordByID(view, id string) (library.Album, error) {
	albums, err := library.LoadAlbums(s.store, view)
	if err != nil {
		return library.Album{}, err
	}
	for _, album := range albums {
		if album.ID == id {
			return album, nil
		}
	}
	return library.Album{}, fmt.Errorf("album %s in view %q: %w", id, viewName(view), ErrNotFound)
}

// RateAlbumByID applies a rating decision to the album with the given id.
func (s *LibraryService) RateAlbumByID(ctx context.Context, view, id string, rating ratings.Rating) (bool, error) {
	album, err := s.AlbumRecordByID(view, id)
	if err != nil {
		return false, err
	}
	key, ok := album.Key()
	if !ok {
		return false, fmt.Errorf("album %s has no rating key", id)
	}
	return s.ratings.Rate(ctx, key, rating)
}

// Rebuild scans the daemon's database and persists fresh views. Concurrent
// callers beyond the first get ErrRebuildRunning.
func (s *LibraryService) Rebuild(ctx context.Context) (*library.Snapshot, error) {
	if !s.rebuildMu.TryLock() {
		return nil, ErrRebuildRunning
	}
	defer s.rebuildMu.Unlock()

	started := time.Now()
	snap, err := s.builder.Rebuild(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ratings.Ensure(); err != nil {
		return nil, fmt.Errorf("ensure rating list: %w", err)
	}
	s.logger.Info("cache rebuilt",
		logging.Int("albums", len(snap.Albums)),
		logging.Int("tracks", len(snap.Tracks)),
		logging.Duration("elapsed", time.Since(started)))
	return snap, nil
}

// EnsureFresh rebuilds only when part of the cache set is missing.
func (s *LibraryService) EnsureFresh(ctx context.Context) error {
	if !library.Stale(s.store) {
		return nil
	}
	s.logger.Info("cache incomplete, rebuilding")
	_, err := s.Rebuild(ctx)
	return err
}

// Status summarizes the cache file set.
func (s *LibraryService) Status() (CacheStatus, error) {
	albums, err := library.LoadAlbums(s.store, library.ViewAlbums)
	if err != nil {
		return CacheStatus{}, err
	}
	latest, err := library.LoadAlbums(s.store, library.ViewLatest)
	if err != nil {
		return CacheStatus{}, err
	}
	tracks, err := library.LoadTracks(s.store)
	if err != nil {
		return CacheStatus{}, err
	}
	status := CacheStatus{
		Albums:  len(albums),
		Latest:  len(latest),
		Tracks:  len(tracks),
		Ratings: s.ratings.Count(),
		Stale:   library.Stale(s.store),
	}
	if builtAt, ok := s.store.ModTime(cachefile.AlbumCache); ok {
		status.BuiltAt = builtAt
	}
	return status, nil
}

func checkRatingFilter(filter string) error {
	if filter == "" {
		return nil
	}
	if !ratings.Rating(filter).IsScore() {
		return fmt.Errorf("rating filter must be a score between 1 and 10, got %q", filter)
	}
	return nil
}

func viewName(view string) string {
	if view == "" {
		return library.ViewAlbums
	}
	return view
}
