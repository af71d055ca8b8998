package cachefile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/carnager/clerk-modular/internal/logging"
)

// Canonical cache file names under the data directory.
const (
	AlbumCache   = "album.cache"
	TracksCache  = "tracks.cache"
	LatestCache  = "latest.cache"
	RatingsCache = "ratings.cache"
)

// ViewCaches lists the three library-derived view files, which are only ever
// rebuilt together.
var ViewCaches = []string{AlbumCache, TracksCache, LatestCache}

// ErrCorrupt marks an unreadable cache file.
var ErrCorrupt = errors.New("cache file corrupt")

// Store reads and writes cache files in a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// first save.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "cachefile"),
	}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute path of the named cache file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether the named cache file is present.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// MissingAny reports whether any of the named cache files is absent.
func (s *Store) MissingAny(names ...string) bool {
	for _, name := range names {
		if !s.Exists(name) {
			return true
		}
	}
	return false
}

// ModTime returns the named file's modification time, if it exists.
func (s *Store) ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(s.Path(name))
	if err != nil || info.IsDir() {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Load reads the named cache file into out, which must be a pointer. A
// missing or empty file leaves out at its zero value and returns nil. Decode
// failures wrap ErrCorrupt.
func (s *Store) Load(name string, out any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w: %v", name, ErrCorrupt, err)
	}
	return nil
}

// Save persists a single value under the given name, atomically and durably.
func (s *Store) Save(name string, in any) error {
	return s.SaveAll(Blob{Name: name, Value: in})
}

// Blob pairs a cache file name with the value to persist in it.
type Blob struct {
	Name  string
	Value any
}

// SaveAll persists several blobs as a set: every blob is marshalled and
// written to a fsynced temp file first, and only when all of them are staged
// are the temp files renamed into place. A failure while staging removes
// every temp file and leaves the existing cache files untouched.
func (s *Store) SaveAll(blobs ...Blob) error {
	if len(blobs) == 0 {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	staged := make([]string, 0, len(blobs))
	discard := func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}

	for _, blob := range blobs {
		data, err := msgpack.Marshal(blob.Value)
		if err != nil {
			discard()
			return fmt.Errorf("encode %s: %w", blob.Name, err)
		}
		tmp := s.Path(blob.Name) + ".tmp"
		if err := writeDurable(tmp, data); err != nil {
			discard()
			return fmt.Errorf("stage %s: %w", blob.Name, err)
		}
		staged = append(staged, tmp)
	}

	for i, blob := range blobs {
		if err := os.Rename(staged[i], s.Path(blob.Name)); err != nil {
			discard()
			return fmt.Errorf("rename %s: %w", blob.Name, err)
		}
	}

	if s.logger != nil {
		for _, blob := range blobs {
			s.logger.Debug("cache file saved", logging.String("file", blob.Name))
		}
	}
	return nil
}

// writeDurable writes data to path and forces it to stable storage before
// returning.
func writeDurable(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
