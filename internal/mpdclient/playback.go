package mpdclient

import (
	"context"
	"time"

	"github.com/fhs/gompd/v2/mpd"

	"github.com/carnager/clerk-modular/internal/library"
)

// Status is the subset of the daemon's status the frontends need.
type Status struct {
	State          string
	Song           int
	PlaylistLength int
	Elapsed        time.Duration
	UpdatingDB     bool
}

// Playing reports whether playback is running.
func (s Status) Playing() bool {
	return s.State == "play"
}

// Status fetches the daemon's playback status. Song is -1 when the queue has
// no current song.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var status Status
	err := c.do(ctx, "status", func(conn *mpd.Client) error {
		attrs, err := conn.Status()
		if err != nil {
			return err
		}
		status = Status{
			State:          attrs["state"],
			Song:           attrInt(attrs, "song", -1),
			PlaylistLength: attrInt(attrs, "playlistlength", 0),
			Elapsed:        attrSeconds(attrs, "elapsed"),
			UpdatingDB:     attrs["updating_db"] != "",
		}
		return nil
	})
	return status, err
}

// CurrentSong returns the raw record of the playing song. The second return
// is false when the queue has no current song.
func (c *Client) CurrentSong(ctx context.Context) (library.TrackInfo, bool, error) {
	var (
		info library.TrackInfo
		ok   bool
	)
	err := c.do(ctx, "currentsong", func(conn *mpd.Client) error {
		attrs, err := conn.CurrentSong()
		if err != nil {
			return err
		}
		if attrs["file"] == "" {
			return nil
		}
		info = trackInfoFromAttrs(attrs)
		ok = true
		return nil
	})
	if err != nil {
		return library.TrackInfo{}, false, err
	}
	return info, ok, nil
}

// Clear empties the play queue.
func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, "clear", func(conn *mpd.Client) error {
		return conn.Clear()
	})
}

// CurrentPosition returns the queue position of the playing song, or -1
// when nothing is current.
func (c *Client) CurrentPosition(ctx context.Context) (int, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return -1, err
	}
	return status.Song, nil
}

// PlayID starts playback of the queued song with the given id.
func (c *Client) PlayID(ctx context.Context, id int) error {
	return c.do(ctx, "playid", func(conn *mpd.Client) error {
		return conn.PlayID(id)
	})
}

// AddID inserts the song at uri at the given queue position and returns its
// queue id. A position of -1 appends.
func (c *Client) AddID(ctx context.Context, uri string, pos int) (int, error) {
	var id int
	err := c.do(ctx, "addid", func(conn *mpd.Client) error {
		got, err := conn.AddID(uri, pos)
		if err != nil {
			return err
		}
		id = got
		return nil
	})
	return id, err
}
