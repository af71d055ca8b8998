package library

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/carnager/clerk-modular/internal/cachefile"
	"github.com/carnager/clerk-modular/internal/logging"
)

// Source enumerates the daemon's track library in bounded windows. Windows
// are half-open zero-based ranges; a window past the end returns an empty
// slice.
type Source interface {
	SongCount(ctx context.Context) (int, error)
	Window(ctx context.Context, start, count int) ([]TrackInfo, error)
}

// Snapshot is the result of one library scan: the three views, consistent
// with each other.
type Snapshot struct {
	Albums []Album
	Tracks []Track
	Latest []Album
}

// Progress receives scan progress while the corpus is fetched.
type Progress func(done, total int)

// Builder derives the cached views from a Source and persists them as a set.
type Builder struct {
	source    Source
	store     *cachefile.Store
	batchSize int
	logger    *slog.Logger
	progress  Progress
}

// NewBuilder creates a builder fetching batchSize tracks per window.
func NewBuilder(source Source, store *cachefile.Store, batchSize int, logger *slog.Logger) *Builder {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Builder{
		source:    source,
		store:     store,
		batchSize: batchSize,
		logger:    logging.NewComponentLogger(logger, "builder"),
	}
}

// SetProgress installs a progress callback for the fetch phase.
func (b *Builder) SetProgress(fn Progress) {
	b.progress = fn
}

// Build scans the full library and derives the three views. Any window
// failure aborts the build; a partial corpus never produces a snapshot.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	total, err := b.source.SongCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("song count: %w", err)
	}
	if b.progress != nil {
		b.progress(0, total)
	}

	corpus := make([]TrackInfo, 0, total)
	for start := 0; start < total; start += b.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		window, err := b.source.Window(ctx, start, b.batchSize)
		if err != nil {
			return nil, fmt.Errorf("fetch window %d: %w", start, err)
		}
		if len(window) == 0 {
			break
		}
		corpus = append(corpus, window...)
		if b.progress != nil {
			done := len(corpus)
			if done > total {
				done = total
			}
			b.progress(done, total)
		}
	}

	snap := derive(corpus)
	b.logger.Info("library scanned",
		logging.Int("songs", len(corpus)),
		logging.Int("albums", len(snap.Albums)),
		logging.Int("tracks", len(snap.Tracks)))
	return snap, nil
}

// Rebuild scans the library and persists all three views together.
func (b *Builder) Rebuild(ctx context.Context) (*Snapshot, error) {
	snap, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := b.store.SaveAll(
		cachefile.Blob{Name: cachefile.AlbumCache, Value: snap.Albums},
		cachefile.Blob{Name: cachefile.TracksCache, Value: snap.Tracks},
		cachefile.Blob{Name: cachefile.LatestCache, Value: snap.Latest},
	); err != nil {
		return nil, fmt.Errorf("persist views: %w", err)
	}
	return snap, nil
}

// derive runs the single normalization pass: newest-first ordering, album
// deduplication with view-local dense ids, and track collection.
func derive(corpus []TrackInfo) *Snapshot {
	sorted := make([]TrackInfo, len(corpus))
	copy(sorted, corpus)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastModified.After(sorted[j].LastModified)
	})

	snap := &Snapshot{
		Albums: make([]Album, 0),
		Tracks: make([]Track, 0),
		Latest: make([]Album, 0),
	}
	seenAlbums := make(map[Key]struct{})
	seenLatest := make(map[Key]struct{})

	for _, info := range sorted {
		artist := info.AlbumArtist
		if artist.IsAbsent() {
			artist = info.Artist
		}
		date := info.Date
		if date.IsAbsent() {
			date = Scalar(defaultDate)
		}

		key, ok := DeriveKey(artist, info.Album, date)
		if !ok {
			continue
		}

		if _, seen := seenAlbums[key]; !seen {
			seenAlbums[key] = struct{}{}
			snap.Albums = append(snap.Albums, Album{
				Artist: artist,
				Album:  info.Album,
				Date:   date,
				ID:     strconv.Itoa(len(snap.Albums)),
			})
		}
		if _, seen := seenLatest[key]; !seen {
			seenLatest[key] = struct{}{}
			snap.Latest = append(snap.Latest, Album{
				Artist: artist,
				Album:  info.Album,
				Date:   date,
				ID:     strconv.Itoa(len(snap.Latest)),
			})
		}

		if info.File == "" {
			continue
		}
		title := info.Title
		if title.IsAbsent() {
			title = Scalar("")
		}
		number := info.Number
		if number.IsAbsent() {
			number = Scalar("")
		}
		trackArtist := info.Artist
		if trackArtist.IsAbsent() {
			trackArtist = artist
		}
		snap.Tracks = append(snap.Tracks, Track{
			Number: number,
			Title:  title,
			Artist: trackArtist,
			Album:  info.Album,
			Date:   date,
			File:   info.File,
			ID:     strconv.Itoa(len(snap.Tracks)),
		})
	}
	return snap
}
