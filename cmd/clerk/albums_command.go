package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/carnager/clerk-modular/internal/api"
	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/playlist"
)

type browseFlags struct {
	ratingFilter string
	mode         string
	list         bool
}

func newAlbumsCommand(ctx *commandContext) *cobra.Command {
	var flags browseFlags
	var latest bool

	cmd := &cobra.Command{
		Use:   "albums",
		Short: "Pick albums from the cached library",
		RunE: func(cmd *cobra.Command, args []string) error {
			view := library.ViewAlbums
			if latest {
				view = library.ViewLatest
			}
			return albumFlow(cmd, ctx, view, flags)
		},
	}
	addBrowseFlags(cmd, &flags)
	cmd.Flags().BoolVar(&latest, "latest", false, "Use the recently-modified view, newest first")
	return cmd
}

func newLatestCommand(ctx *commandContext) *cobra.Command {
	var flags browseFlags

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Pick albums ordered by modification time, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return albumFlow(cmd, ctx, library.ViewLatest, flags)
		},
	}
	addBrowseFlags(cmd, &flags)
	return cmd
}

func addBrowseFlags(cmd *cobra.Command, flags *browseFlags) {
	cmd.Flags().StringVar(&flags.ratingFilter, "rating", "", "Only show entries rated with this score (1-10)")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "Queue selections without the action menu (add, insert, replace)")
	cmd.Flags().BoolVar(&flags.list, "list", false, "Print the view instead of opening the menu")
}

func albumFlow(cmd *cobra.Command, cmdCtx *commandContext, view string, flags browseFlags) error {
	deps, err := cmdCtx.ensureDeps()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := deps.library.EnsureFresh(ctx); err != nil {
		return err
	}
	entries, err := deps.library.Albums(view, flags.ratingFilter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No albums available.")
		return nil
	}

	if flags.list {
		printAlbumTable(out, entries)
		return nil
	}

	chosen, err := deps.selector.PickMany(ctx, "", formatAlbumLines(entries))
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
		return queueAlbums(ctx, out, deps, view, ids, mode)
	}

	action, err := deps.selector.Pick(ctx, "Action",
		[]string{actionAdd, actionInsert, actionReplace, actionRateAlbums})
	if err != nil {
		return err
	}
	switch action {
	case "":
		return nil
	case actionAdd:
		return queueAlbums(ctx, out, deps, view, ids, playlist.ModeAdd)
	case actionInsert:
		return queueAlbums(ctx, out, deps, view, ids, playlist.ModeInsert)
	case actionReplace:
		return queueAlbums(ctx, out, deps, view, ids, playlist.ModeReplace)
	case actionRateAlbums:
		return rateAlbums(ctx, out, deps, view, ids)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func queueAlbums(ctx context.Context, out io.Writer, deps *cliDeps, view string, ids []string, mode playlist.Mode) error {
	records := make([]library.Album, 0, len(ids))
	for _, id := range ids {
		album, err := deps.library.AlbumRecordByID(view, id)
		if err != nil {
			return err
		}
		records = append(records, album)
	}

	queued, err := deps.queuer.QueueAlbums(ctx, records, mode)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Queued %d tracks (%s).\n", queued, mode)
	return nil
}

// rateAlbums walks the selection one album at a time so each menu prompt
// can carry the stored score.
func rateAlbums(ctx context.Context, out io.Writer, deps *cliDeps, view string, ids []string) error {
	for _, id := range ids {
		entry, err := deps.library.AlbumByID(view, id)
		if err != nil {
			return err
		}
		subject := fmt.Sprintf("%s - %s", entry.Artist, entry.Album)

		rating, err := pickRating(ctx, deps.selector, ratingPrompt(subject, entry.Rating))
		if err != nil {
			return err
		}
		changed, err := deps.library.RateAlbumByID(ctx, view, id, rating)
		if err != nil {
			return err
		}
		reportRating(out, subject, rating, changed)
	}
	return nil
}

func printAlbumTable(out io.Writer, entries []api.AlbumEntry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, e.Artist, e.Date, e.Album, e.Rating})
	}
	renderTable(out, []string{"ID", "Artist", "Date", "Album", "Rating"}, rows, 1)
}
