package ratings

import (
	"context"
	"errors"
	"fmt"
)

// stickerName is the daemon sticker under which track ratings are stored.
const stickerName = "rating"

// StickerStore writes per-song sticker values on the daemon.
type StickerStore interface {
	SetSticker(ctx context.Context, uri, name, value string) error
	DeleteSticker(ctx context.Context, uri, name string) error
}

// StickerReader reads per-song sticker values from the daemon.
type StickerReader interface {
	GetSticker(ctx context.Context, uri, name string) (string, bool, error)
}

// TrackRating reads a song's stored rating sticker. The empty string means
// the song carries none.
func TrackRating(ctx context.Context, stickers StickerReader, file string) (string, error) {
	if file == "" {
		return "", errors.New("track file required")
	}
	value, ok, err := stickers.GetSticker(ctx, file, stickerName)
	if err != nil || !ok {
		return "", err
	}
	return value, nil
}

// RateTrack applies a rating decision to a single song's daemon-side
// sticker. RatingSkip declines without touching the daemon.
func RateTrack(ctx context.Context, stickers StickerStore, file string, rating Rating) error {
	if file == "" {
		return errors.New("track file required")
	}
	if !rating.Valid() {
		return fmt.Errorf("invalid rating %q", rating)
	}
	switch rating {
	case RatingSkip:
		return nil
	case RatingDelete:
		return stickers.DeleteSticker(ctx, file, stickerName)
	default:
		return stickers.SetSticker(ctx, file, stickerName, rating.String())
	}
}
