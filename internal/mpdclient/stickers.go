package mpdclient

import (
	"context"
	"strings"

	"github.com/fhs/gompd/v2/mpd"
)

// SetSticker stores a sticker value on the song at uri.
func (c *Client) SetSticker(ctx context.Context, uri, name, value string) error {
	return c.do(ctx, "sticker set", func(conn *mpd.Client) error {
		return conn.Command("sticker set song %s %s %s", uri, name, value).OK()
	})
}

// DeleteSticker removes a sticker from the song at uri. Deleting a sticker
// that was never set is not an error.
func (c *Client) DeleteSticker(ctx context.Context, uri, name string) error {
	err := c.do(ctx, "sticker delete", func(conn *mpd.Client) error {
		return conn.Command("sticker delete song %s %s", uri, name).OK()
	})
	if err != nil && strings.Contains(err.Error(), "no such sticker") {
		return nil
	}
	return err
}

// GetSticker reads a sticker value from the song at uri. The second return
// is false when the sticker is not set.
func (c *Client) GetSticker(ctx context.Context, uri, name string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := c.do(ctx, "sticker get", func(conn *mpd.Client) error {
		attrs, err := conn.Command("sticker get song %s %s", uri, name).Attrs()
		if err != nil {
			return err
		}
		raw, present := attrs["sticker"]
		if !present {
			return nil
		}
		if _, after, found := strings.Cut(raw, "="); found {
			value = after
			ok = true
		}
		return nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "no such sticker") {
			return "", false, nil
		}
		return "", false, err
	}
	return value, ok, nil
}
