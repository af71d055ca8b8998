package mpdclient

import (
	"github.com/fhs/gompd/v2/mpd"
)

// Watcher delivers idle events for the subscribed subsystems over its own
// dedicated connection.
type Watcher struct {
	inner *mpd.Watcher
}

// Watch opens a new idle connection subscribed to the given subsystems, for
// example "database" or "player".
func (c *Client) Watch(subsystems ...string) (*Watcher, error) {
	inner, err := mpd.NewWatcher(c.network, c.addr, c.password, subsystems...)
	if err != nil {
		return nil, err
	}
	return &Watcher{inner: inner}, nil
}

// Events returns the stream of subsystem names that changed.
func (w *Watcher) Events() <-chan string {
	return w.inner.Event
}

// Errors returns the stream of connection-level watcher failures.
func (w *Watcher) Errors() <-chan error {
	return w.inner.Error
}

// Close stops watching and releases the idle connection.
func (w *Watcher) Close() error {
	return w.inner.Close()
}
