package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/carnager/clerk-modular/internal/api"
	"github.com/carnager/clerk-modular/internal/playlist"
	"github.com/carnager/clerk-modular/internal/ratings"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var flags browseFlags

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "Pick single tracks from the cached library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return trackFlow(cmd, ctx, flags)
		},
	}
	addBrowseFlags(cmd, &flags)
	return cmd
}

func trackFlow(cmd *cobra.Command, cmdCtx *commandContext, flags browseFlags) error {
	deps, err := cmdCtx.ensureDeps()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := deps.library.EnsureFresh(ctx); err != nil {
		return err
	}
	entries, err := deps.library.Tracks(flags.ratingFilter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No tracks available.")
		return nil
	}

	if flags.list {
		printTrackTable(out, entries)
		return nil
	}

	chosen, err := deps.selector.PickMany(ctx, "", formatTrackLines(entries))
	if err != nil {
		return err
	}
	ids := selectedIDs(chosen)
	if len(ids) == 0 {
		return nil
	}

	if flags.mode != "" {
		mode, err := playlist.ParseMode(flags.mode)
		if err != nil {
			return err
		}
		return queueTracks(ctx, out, deps, ids, mode)
	}

	action, err := deps.selector.Pick(ctx, "Action",
		[]string{actionAdd, actionInsert, actionReplace, actionRateTrack})
	if err != nil {
		return err
	}
	switch action {
	case "":
		return nil
	case actionAdd:
		return queueTracks(ctx, out, deps, ids, playlist.ModeAdd)
	case actionInsert:
		return queueTracks(ctx, out, deps, ids, playlist.ModeInsert)
	case actionReplace:
		return queueTracks(ctx, out, deps, ids, playlist.ModeReplace)
	case actionRateTrack:
		return rateTracks(ctx, out, deps, ids)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func queueTracks(ctx context.Context, out io.Writer, deps *cliDeps, ids []string, mode playlist.Mode) error {
	files := make([]string, 0, len(ids))
	for _, id := range ids {
		entry, err := deps.library.TrackByID(id)
		if err != nil {
			return err
		}
		files = append(files, entry.File)
	}

	queued, err := deps.queuer.QueueTracks(ctx, files, mode)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Queued %d tracks (%s).\n", queued, mode)
	return nil
}

// rateTracks stores scores as daemon-side song stickers, one prompt per
// track. Unlike album scores these never enter the local rating list.
func rateTracks(ctx context.Context, out io.Writer, deps *cliDeps, ids []string) error {
	for _, id := range ids {
		entry, err := deps.library.TrackByID(id)
		if err != nil {
			return err
		}
		subject := fmt.Sprintf("%s - %s", entry.Artist, entry.Title)

		current, err := ratings.TrackRating(ctx, deps.mpd, entry.File)
		if err != nil {
			return err
		}
		rating, err := pickRating(ctx, deps.selector, ratingPrompt(subject, current))
		if err != nil {
			return err
		}
		if rating == ratings.RatingSkip {
			fmt.Fprintf(out, "%s: unchanged\n", subject)
			continue
		}
		if err := ratings.RateTrack(ctx, deps.mpd, entry.File, rating); err != nil {
			return err
		}
		if rating == ratings.RatingDelete {
			fmt.Fprintf(out, "%s: rating removed\n", subject)
		} else {
			fmt.Fprintf(out, "%s: rated %s\n", subject, rating)
		}
	}
	return nil
}

func printTrackTable(out io.Writer, entries []api.TrackEntry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, e.Number, e.Title, e.Artist, e.Album, e.Date, e.Rating})
	}
	renderTable(out, []string{"ID", "#", "Title", "Artist", "Album", "Date", "Rating"}, rows, 1, 2)
}
