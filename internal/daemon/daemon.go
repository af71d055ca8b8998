package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/carnager/clerk-modular/internal/api"
	"github.com/carnager/clerk-modular/internal/cachefile"
	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/listsync"
	"github.com/carnager/clerk-modular/internal/logging"
	"github.com/carnager/clerk-modular/internal/mpdclient"
	"github.com/carnager/clerk-modular/internal/playlist"
	"github.com/carnager/clerk-modular/internal/ratings"
)

const (
	mpdConnectAttempts = 5
	mpdConnectDelay    = 2 * time.Second
)

// Daemon owns the clerkd runtime: the shared MPD connection, the cache
// service, and the HTTP API server.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	mpd     *mpdclient.Client
	service *api.LibraryService
	ratings *ratings.Store
	queuer  *playlist.Queuer

	lockPath string
	lock     *flock.Flock
}

// New wires the daemon component graph from configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	mpd := mpdclient.New(cfg, logger)
	files := cachefile.NewStore(cfg.Library.DataDir, logger)
	ratingStore := ratings.NewStore(files, listsync.NewService(cfg, logger), logger)
	builder := library.NewBuilder(mpd, files, cfg.Library.BatchSize, logger)

	lockPath := filepath.Join(cfg.Library.DataDir, "clerkd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		mpd:      mpd,
		service:  api.NewLibraryService(files, builder, ratingStore, logger),
		ratings:  ratingStore,
		queuer:   playlist.NewQueuer(mpd, cfg, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Run acquires the daemon lock and serves until ctx is canceled. A second
// instance on the same data directory fails fast instead of corrupting the
// cache set.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}
	if err := d.cfg.DataDirWritable(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another clerkd instance is already running")
	}
	defer d.releaseLock()

	d.logger.Info("clerkd started",
		logging.Int("pid", os.Getpid()),
		logging.String("lock", d.lockPath),
		logging.Bool("watch_database", d.cfg.Daemon.WatchDatabase))

	if err := d.connectMPD(ctx); err != nil {
		d.logger.Warn("music daemon unreachable at startup", logging.Error(err))
	} else if err := d.service.EnsureFresh(ctx); err != nil {
		d.logger.Warn("initial cache build failed", logging.Error(err))
	}

	server := newAPIServer(d.cfg, d.service, d.ratings, d.queuer, d.mpd, d.logger)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return server.run(groupCtx) })
	if d.cfg.Daemon.WatchDatabase {
		group.Go(func() error { return d.watchDatabase(groupCtx) })
	}

	err = group.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if closeErr := d.mpd.Close(); closeErr != nil {
		d.logger.Debug("closing music daemon connection", logging.Error(closeErr))
	}
	d.logger.Info("clerkd stopped")
	return err
}

// connectMPD dials with a bounded retry so a daemon started before the
// music player still comes up connected.
func (d *Daemon) connectMPD(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= mpdConnectAttempts; attempt++ {
		if err = d.mpd.Connect(ctx); err == nil {
			return nil
		}
		if attempt == mpdConnectAttempts {
			break
		}
		d.logger.Debug("music daemon connect failed, retrying",
			logging.Int("attempt", attempt),
			logging.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(mpdConnectDelay):
		}
	}
	return err
}

// releaseLock unlocks and removes the lock file after a clean shutdown, so
// a leftover file never blocks the next start.
func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
		return
	}
	if err := os.Remove(d.lockPath); err != nil && !os.IsNotExist(err) {
		d.logger.Warn("failed to remove lock file", logging.Error(err))
	}
}
