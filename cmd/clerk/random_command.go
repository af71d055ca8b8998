package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/carnager/clerk-modular/internal/playlist"
)

func newRandomCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Replace the queue with random picks",
	}
	cmd.AddCommand(newRandomAlbumCommand(ctx))
	cmd.AddCommand(newRandomTracksCommand(ctx))
	return cmd
}

func newRandomAlbumCommand(ctx *commandContext) *cobra.Command {
	var pickArtist bool

	cmd := &cobra.Command{
		Use:   "album",
		Short: "Replace the queue with one random album",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.ensureDeps()
			if err != nil {
				return err
			}
			runCtx := cmd.Context()

			if pickArtist {
				artists, err := deps.queuer.Artists(runCtx)
				if err != nil {
					return err
				}
				if len(artists) == 0 {
					return errors.New("the daemon database has no artists")
				}
				sortArtists(artists)

				artist, err := deps.selector.Pick(runCtx, "Artist", artists)
				if err != nil || artist == "" {
					return err
				}
				queued, err := deps.queuer.RandomAlbumOf(runCtx, artist)
				if err != nil {
					return err
				}
				printQueuedAlbum(cmd.OutOrStdout(), queued)
				return nil
			}

			queued, err := deps.queuer.RandomAlbum(runCtx)
			if err != nil {
				return err
			}
			printQueuedAlbum(cmd.OutOrStdout(), queued)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pickArtist, "artist", false, "Pick the artist from a menu first")
	return cmd
}

func newRandomTracksCommand(ctx *commandContext) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "Replace the queue with random single tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.ensureDeps()
			if err != nil {
				return err
			}
			deps.queuer.SetTrackCount(count)

			queued, err := deps.queuer.RandomTracks(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued %d random tracks.\n", queued)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "Number of tracks to queue (defaults to the configured count)")
	return cmd
}

func printQueuedAlbum(out io.Writer, queued playlist.QueuedAlbum) {
	fmt.Fprintf(out, "Playing %s - %s (%s), %d tracks.\n",
		queued.Artist, queued.Album, queued.Date, queued.Tracks)
}
