package playlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/logging"
)

// Player is the slice of the daemon client the queuer needs.
type Player interface {
	Clear(ctx context.Context) error
	AddID(ctx context.Context, uri string, pos int) (int, error)
	PlayID(ctx context.Context, id int) error
	CurrentPosition(ctx context.Context) (int, error)
	FindTracks(ctx context.Context, pairs ...string) ([]library.TrackInfo, error)
	ListTag(ctx context.Context, tag string) ([]string, error)
}

// QueuedAlbum describes what a random album pick put on the queue.
type QueuedAlbum struct {
	Artist string
	Album  string
	Date   string
	Tracks int
}

// Queuer applies album and track selections to the play queue.
type Queuer struct {
	player     Player
	artistTag  string
	trackCount int
	logger     *slog.Logger

	intn func(n int) int
}

// NewQueuer creates a queuer using the configured random artist tag and
// random track count.
func NewQueuer(player Player, cfg *config.Config, logger *slog.Logger) *Queuer {
	return &Queuer{
		player:     player,
		artistTag:  cfg.Library.RandomArtistTag,
		trackCount: cfg.Library.RandomTrackCount,
		logger:     logging.NewComponentLogger(logger, "playlist"),
		intn:       rand.Intn,
	}
}

// SetTrackCount overrides the configured number of random tracks. Values
// below one keep the configured count.
func (q *Queuer) SetTrackCount(n int) {
	if n > 0 {
		q.trackCount = n
	}
}

// QueueAlbums resolves every album to its tracks in the daemon's database
// and queues them in order. It returns the number of queued tracks.
func (q *Queuer) QueueAlbums(ctx context.Context, albums []library.Album, mode Mode) (int, error) {
	var files []string
	for _, album := range albums {
		resolved, err := q.albumFiles(ctx, album)
		if err != nil {
			return 0, err
		}
		if len(resolved) == 0 {
			artist, _ := album.Artist.First()
			name, _ := album.Album.First()
			return 0, fmt.Errorf("no tracks in database for %s - %s", artist, name)
		}
		files = append(files, resolved...)
	}
	if err := q.queueFiles(ctx, files, mode); err != nil {
		return 0, err
	}
	q.logger.Info("albums queued",
		logging.Int("albums", len(albums)),
		logging.Int("tracks", len(files)),
		logging.String("mode", string(mode)))
	return len(files), nil
}

// QueueTracks queues explicit song files. It returns the number queued.
func (q *Queuer) QueueTracks(ctx context.Context, files []string, mode Mode) (int, error) {
	kept := make([]string, 0, len(files))
	for _, file := range files {
		if file != "" {
			kept = append(kept, file)
		}
	}
	if err := q.queueFiles(ctx, kept, mode); err != nil {
		return 0, err
	}
	q.logger.Info("tracks queued",
		logging.Int("tracks", len(kept)),
		logging.String("mode", string(mode)))
	return len(kept), nil
}

// Artists returns the values of the configured artist tag, in daemon order.
func (q *Queuer) Artists(ctx context.Context) ([]string, error) {
	values, err := q.player.ListTag(ctx, q.artistTag)
	if err != nil {
		return nil, fmt.Errorf("list %s values: %w", q.artistTag, err)
	}
	return values, nil
}

// RandomAlbum replaces the queue with a random album: a random value of the
// configured artist tag, then a random album of that artist.
func (q *Queuer) RandomAlbum(ctx context.Context) (QueuedAlbum, error) {
	values, err := q.Artists(ctx)
	if err != nil {
		return QueuedAlbum{}, err
	}
	if len(values) == 0 {
		return QueuedAlbum{}, fmt.Errorf("daemon reports no %s values", q.artistTag)
	}
	return q.RandomAlbumOf(ctx, values[q.intn(len(values))])
}

// RandomAlbumOf replaces the queue with a random album of one artist-tag
// value.
func (q *Queuer) RandomAlbumOf(ctx context.Context, artist string) (QueuedAlbum, error) {
	tracks, err := q.player.FindTracks(ctx, q.artistTag, artist)
	if err != nil {
		return QueuedAlbum{}, fmt.Errorf("lookup tracks of %s: %w", artist, err)
	}
	if len(tracks) == 0 {
		return QueuedAlbum{}, fmt.Errorf("no tracks for %s %q", q.artistTag, artist)
	}

	type albumID struct {
		album string
		date  string
	}
	var order []albumID
	seen := make(map[albumID]bool)
	for _, track := range tracks {
		album, _ := track.Album.First()
		date, _ := track.Date.First()
		id := albumID{album: album, date: date}
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	pick := order[q.intn(len(order))]

	var files []string
	for _, track := range tracks {
		album, _ := track.Album.First()
		date, _ := track.Date.First()
		if album == pick.album && date == pick.date && track.File != "" {
			files = append(files, track.File)
		}
	}
	if err := q.queueFiles(ctx, files, ModeReplace); err != nil {
		return QueuedAlbum{}, err
	}

	queued := QueuedAlbum{Artist: artist, Album: pick.album, Date: pick.date, Tracks: len(files)}
	q.logger.Info("random album queued",
		logging.String("artist", queued.Artist),
		logging.String("album", queued.Album),
		logging.Int("tracks", queued.Tracks))
	return queued, nil
}

// RandomTracks replaces the queue with the configured number of random
// songs, spreading picks over distinct artist-tag values while enough are
// available.
func (q *Queuer) RandomTracks(ctx context.Context) (int, error) {
	values, err := q.player.ListTag(ctx, q.artistTag)
	if err != nil {
		return 0, fmt.Errorf("list %s values: %w", q.artistTag, err)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("daemon reports no %s values", q.artistTag)
	}
	q.shuffle(values)

	files := make([]string, 0, q.trackCount)
	for i := 0; i < q.trackCount; i++ {
		value := values[i%len(values)]
		tracks, err := q.player.FindTracks(ctx, q.artistTag, value)
		if err != nil {
			return 0, fmt.Errorf("lookup tracks of %s: %w", value, err)
		}
		if len(tracks) == 0 {
			continue
		}
		if file := tracks[q.intn(len(tracks))].File; file != "" {
			files = append(files, file)
		}
	}
	if len(files) == 0 {
		return 0, errors.New("no playable tracks found")
	}
	if err := q.queueFiles(ctx, files, ModeReplace); err != nil {
		return 0, err
	}
	q.logger.Info("random tracks queued", logging.Int("tracks", len(files)))
	return len(files), nil
}

// albumFiles resolves an album record to song files. Albums whose records
// were keyed on the plain artist are retried with the artist tag.
func (q *Queuer) albumFiles(ctx context.Context, album library.Album) ([]string, error) {
	artist, _ := album.Artist.First()
	name, _ := album.Album.First()
	date, _ := album.Date.First()

	for _, tag := range []string{"albumartist", "artist"} {
		tracks, err := q.player.FindTracks(ctx, tag, artist, "album", name, "date", date)
		if err != nil {
			return nil, fmt.Errorf("lookup album tracks: %w", err)
		}
		files := make([]string, 0, len(tracks))
		for _, track := range tracks {
			if track.File != "" {
				files = append(files, track.File)
			}
		}
		if len(files) > 0 {
			return files, nil
		}
	}
	return nil, nil
}

// queueFiles applies one batch of files to the queue under the given mode.
func (q *Queuer) queueFiles(ctx context.Context, files []string, mode Mode) error {
	if len(files) == 0 {
		return errors.New("nothing to queue")
	}

	if mode == ModeReplace {
		if err := q.player.Clear(ctx); err != nil {
			return fmt.Errorf("clear queue: %w", err)
		}
	}

	insertAt := -1
	if mode == ModeInsert {
		pos, err := q.player.CurrentPosition(ctx)
		if err != nil {
			return fmt.Errorf("queue position: %w", err)
		}
		if pos >= 0 {
			insertAt = pos + 1
		}
	}

	firstID := 0
	haveFirst := false
	for i, file := range files {
		pos := -1
		if insertAt >= 0 {
			pos = insertAt + i
		}
		id, err := q.player.AddID(ctx, file, pos)
		if err != nil {
			return fmt.Errorf("queue %s: %w", file, err)
		}
		if !haveFirst {
			firstID = id
			haveFirst = true
		}
	}

	if mode == ModeAdd {
		return nil
	}
	if err := q.player.PlayID(ctx, firstID); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}
	return nil
}

func (q *Queuer) shuffle(values []string) {
	for i := len(values) - 1; i > 0; i-- {
		j := q.intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}
