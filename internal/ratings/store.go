package ratings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/carnager/clerk-modular/internal/cachefile"
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/listsync"
	"github.com/carnager/clerk-modular/internal/logging"
)

// Store provides access to the persistent album rating list. All mutations
// run as serialized load-mutate-persist cycles over the whole map.
type Store struct {
	files  *cachefile.Store
	syncer listsync.Service
	logger *slog.Logger

	// mu serializes the full mutation cycle, not just the map access.
	mu sync.Mutex
}

// NewStore creates a rating store over the given cache directory.
func NewStore(files *cachefile.Store, syncer listsync.Service, logger *slog.Logger) *Store {
	return &Store{
		files:  files,
		syncer: syncer,
		logger: logging.NewComponentLogger(logger, "ratings"),
	}
}

// load reads the rating map fresh from disk. An unreadable file degrades to
// an empty map with a warning; ratings must never block browsing.
func (s *Store) load() map[string]string {
	var stored map[string]string
	if err := s.files.Load(cachefile.RatingsCache, &stored); err != nil {
		s.logger.Warn("rating list unreadable, starting empty", logging.Error(err))
		stored = nil
	}
	if stored == nil {
		stored = make(map[string]string)
	}
	return stored
}

// Get returns the stored rating for one album key.
func (s *Store) Get(key library.Key) (Rating, bool) {
	value, ok := s.load()[string(key)]
	if !ok {
		return "", false
	}
	return Rating(value), true
}

// All returns every stored rating, fresh from disk.
func (s *Store) All() map[library.Key]Rating {
	stored := s.load()
	out := make(map[library.Key]Rating, len(stored))
	for key, value := range stored {
		out[library.Key(key)] = Rating(value)
	}
	return out
}

// Count returns the number of rated albums.
func (s *Store) Count() int {
	return len(s.load())
}

// Ensure persists the current rating map so the file exists even when no
// album has been rated yet.
func (s *Store) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files.Save(cachefile.RatingsCache, s.load())
}

// Rate applies a rating decision to an album key and reports whether the
// stored list changed. RatingSkip never persists; neither does storing a
// value that is already present nor deleting one that is not. After a
// genuine change the sync hook runs best-effort.
func (s *Store) Rate(ctx context.Context, key library.Key, rating Rating) (bool, error) {
	if key == "" {
		return false, errors.New("album key required")
	}
	if !rating.Valid() {
		return false, fmt.Errorf("invalid rating %q", rating)
	}
	if rating == RatingSkip {
		return false, nil
	}

	s.mu.Lock()
	stored := s.load()

	changed := false
	if rating == RatingDelete {
		if _, ok := stored[string(key)]; ok {
			delete(stored, string(key))
			changed = true
		}
	} else if stored[string(key)] != string(rating) {
		stored[string(key)] = string(rating)
		changed = true
	}

	if !changed {
		s.mu.Unlock()
		return false, nil
	}

	if err := s.files.Save(cachefile.RatingsCache, stored); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("persist ratings: %w", err)
	}
	s.mu.Unlock()

	s.logger.Info("album rating updated",
		logging.String("key", string(key)),
		logging.String("rating", rating.String()))

	if err := s.syncer.Sync(ctx); err != nil {
		s.logger.Warn("rating list sync failed", logging.Error(err))
	}
	return true, nil
}
