package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/ratings"
)

func newCurrentCommand(ctx *commandContext) *cobra.Command {
	var rateAlbum, rateTrack bool

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Rate the song playing right now",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.ensureDeps()
			if err != nil {
				return err
			}
			runCtx := cmd.Context()
			out := cmd.OutOrStdout()

			info, playing, err := deps.mpd.CurrentSong(runCtx)
			if err != nil {
				return err
			}
			if !playing {
				fmt.Fprintln(out, "Nothing is playing.")
				return nil
			}

			switch {
			case rateAlbum && rateTrack:
				return errors.New("--album and --track are mutually exclusive")
			case rateAlbum:
				return rateCurrentAlbum(runCtx, out, deps, info)
			case rateTrack:
				return rateCurrentTrack(runCtx, out, deps, info)
			}

			action, err := deps.selector.Pick(runCtx, "Action",
				[]string{actionRateAlbum, actionRateTrack})
			if err != nil {
				return err
			}
			switch action {
			case "":
				return nil
			case actionRateAlbum:
				return rateCurrentAlbum(runCtx, out, deps, info)
			case actionRateTrack:
				return rateCurrentTrack(runCtx, out, deps, info)
			default:
				return fmt.Errorf("unknown action %q", action)
			}
		},
	}
	cmd.Flags().BoolVar(&rateAlbum, "album", false, "Rate the album without the action menu")
	cmd.Flags().BoolVar(&rateTrack, "track", false, "Rate the track without the action menu")
	return cmd
}

func rateCurrentAlbum(ctx context.Context, out io.Writer, deps *cliDeps, info library.TrackInfo) error {
	key, ok := library.TrackKey(info)
	if !ok {
		return errors.New("the current song carries no album identity")
	}
	artist := info.Artist
	if !info.AlbumArtist.IsAbsent() {
		artist = info.AlbumArtist
	}
	subject := fmt.Sprintf("%s - %s", artist.Display(), info.Album.Display())

	current, _ := deps.ratings.Get(key)
	rating, err := pickRating(ctx, deps.selector, ratingPrompt(subject, current.String()))
	if err != nil {
		return err
	}
	changed, err := deps.ratings.Rate(ctx, key, rating)
	if err != nil {
		return err
	}
	reportRating(out, subject, rating, changed)
	return nil
}

func rateCurrentTrack(ctx context.Context, out io.Writer, deps *cliDeps, info library.TrackInfo) error {
	if info.File == "" {
		return errors.New("the current song has no file path")
	}
	subject := fmt.Sprintf("%s - %s", info.Artist.Display(), info.Title.Display())

	current, err := ratings.TrackRating(ctx, deps.mpd, info.File)
	if err != nil {
		return err
	}
	rating, err := pickRating(ctx, deps.selector, ratingPrompt(subject, current))
	if err != nil {
		return err
	}
	if rating == ratings.RatingSkip {
		fmt.Fprintf(out, "%s: unchanged\n", subject)
		return nil
	}
	if err := ratings.RateTrack(ctx, deps.mpd, info.File, rating); err != nil {
		return err
	}
	if rating == ratings.RatingDelete {
		fmt.Fprintf(out, "%s: rating removed\n", subject)
	} else {
		fmt.Fprintf(out, "%s: rated %s\n", subject, rating)
	}
	return nil
}
