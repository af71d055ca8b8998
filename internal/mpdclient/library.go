package mpdclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fhs/gompd/v2/mpd"

	"github.com/carnager/clerk-modular/internal/library"
)

// Stats summarizes the daemon's database and uptime counters.
type Stats struct {
	Artists    int
	Albums     int
	Songs      int
	Uptime     time.Duration
	DBPlaytime time.Duration
	DBUpdated  time.Time
}

// Stats fetches the daemon's counters.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := c.do(ctx, "stats", func(conn *mpd.Client) error {
		attrs, err := conn.Stats()
		if err != nil {
			return err
		}
		stats = Stats{
			Artists:    attrInt(attrs, "artists", 0),
			Albums:     attrInt(attrs, "albums", 0),
			Songs:      attrInt(attrs, "songs", 0),
			Uptime:     attrSeconds(attrs, "uptime"),
			DBPlaytime: attrSeconds(attrs, "db_playtime"),
		}
		if updated := attrInt(attrs, "db_update", 0); updated > 0 {
			stats.DBUpdated = time.Unix(int64(updated), 0)
		}
		return nil
	})
	return stats, err
}

// SongCount returns the number of songs in the daemon's database.
func (c *Client) SongCount(ctx context.Context) (int, error) {
	stats, err := c.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return stats.Songs, nil
}

// Window fetches count raw track records starting at the given database
// offset. The empty filename filter matches every song.
func (c *Client) Window(ctx context.Context, start, count int) ([]library.TrackInfo, error) {
	var tracks []library.TrackInfo
	err := c.do(ctx, "window", func(conn *mpd.Client) error {
		songs, err := conn.Command("search filename %s window %d:%d", "", start, start+count).AttrsList("file")
		if err != nil {
			return err
		}
		tracks = make([]library.TrackInfo, 0, len(songs))
		for _, song := range songs {
			tracks = append(tracks, trackInfoFromAttrs(song))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// ListTag returns every distinct value of the given tag in the database.
func (c *Client) ListTag(ctx context.Context, tag string) ([]string, error) {
	var values []string
	err := c.do(ctx, "list", func(conn *mpd.Client) error {
		got, err := conn.Command("list %s", tag).Strings(responseKey(tag))
		if err != nil {
			return err
		}
		values = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// FindTracks returns the raw track records matching every tag/value pair
// exactly, for example ("albumartist", "X", "album", "Y", "date", "Z").
func (c *Client) FindTracks(ctx context.Context, pairs ...string) ([]library.TrackInfo, error) {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return nil, fmt.Errorf("find: need tag/value pairs, got %d arguments", len(pairs))
	}
	format := "find" + strings.Repeat(" %s", len(pairs))
	args := make([]any, len(pairs))
	for i, pair := range pairs {
		args[i] = pair
	}

	var tracks []library.TrackInfo
	err := c.do(ctx, "find", func(conn *mpd.Client) error {
		songs, err := conn.Command(format, args...).AttrsList("file")
		if err != nil {
			return err
		}
		tracks = make([]library.TrackInfo, 0, len(songs))
		for _, song := range songs {
			tracks = append(tracks, trackInfoFromAttrs(song))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// Update asks the daemon to rescan its music directory and returns the
// update job id.
func (c *Client) Update(ctx context.Context) (int, error) {
	var job int
	err := c.do(ctx, "update", func(conn *mpd.Client) error {
		id, err := conn.Update("")
		if err != nil {
			return err
		}
		job = id
		return nil
	})
	return job, err
}
