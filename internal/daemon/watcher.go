package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/carnager/clerk-modular/internal/api"
	"github.com/carnager/clerk-modular/internal/logging"
)

const (
	// watchDebounce batches the burst of database events a single
	// mpc update produces into one rebuild.
	watchDebounce = 2 * time.Second
	// watchRetryDelay spaces reconnect attempts after a lost idle
	// connection.
	watchRetryDelay = 10 * time.Second
)

// watchDatabase keeps an idle subscription on the database subsystem alive
// and rebuilds the cache when the daemon's library changes. It returns only
// when ctx is canceled.
func (d *Daemon) watchDatabase(ctx context.Context) error {
	logger := logging.NewComponentLogger(d.logger, "db-watcher")

	for {
		watcher, err := d.mpd.Watch("database")
		if err != nil {
			logger.Warn("idle subscription failed", logging.Error(err))
		} else {
			logger.Info("watching database for changes")
			err = watchLoop(ctx, watcher.Events(), watcher.Errors(), watchDebounce, d.rebuildAfterChange)
			closeErr := watcher.Close()
			if err == nil {
				return closeErr
			}
			logger.Warn("idle connection lost", logging.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(watchRetryDelay):
		}
	}
}

// watchLoop consumes idle events until ctx ends or the stream fails. Events
// arriving within the debounce window collapse into one rebuild call.
func watchLoop(ctx context.Context, events <-chan string, errs <-chan error, debounce time.Duration, rebuild func(context.Context)) error {
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case subsystem, ok := <-events:
			if !ok {
				return errors.New("idle event stream closed")
			}
			if subsystem != "database" {
				continue
			}
			pending = time.After(debounce)
		case err, ok := <-errs:
			if !ok {
				return errors.New("idle error stream closed")
			}
			return err
		case <-pending:
			pending = nil
			rebuild(ctx)
		}
	}
}

// rebuildAfterChange refreshes the views after a database change. A rebuild
// already in flight covers the change, so that case is not an error.
func (d *Daemon) rebuildAfterChange(ctx context.Context) {
	logger := logging.NewComponentLogger(d.logger, "db-watcher")
	logger.Info("database changed, rebuilding cache")

	if _, err := d.service.Rebuild(ctx); err != nil {
		if errors.Is(err, api.ErrRebuildRunning) {
			logger.Debug("rebuild already in flight")
			return
		}
		logger.Error("rebuild after database change failed", logging.Error(err))
	}
}
