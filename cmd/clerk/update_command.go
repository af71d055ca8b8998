package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/carnager/clerk-modular/internal/library"
	"github.com/carnager/clerk-modular/internal/mpdclient"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		ifMissing bool
		rescan    bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rebuild the cache files from the daemon database",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.ensureDeps()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if ifMissing && !library.Stale(deps.files) {
				fmt.Fprintln(out, "Caches are fresh.")
				return nil
			}

			if rescan {
				if err := rescanDatabase(cmd.Context(), out, deps.mpd); err != nil {
					return err
				}
			}

			// The bar goes to stderr so counts on stdout stay pipeable.
			var bar *progressbar.ProgressBar
			if isTerminal(os.Stderr) {
				deps.builder.SetProgress(func(done, total int) {
					if bar == nil {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetDescription("caching library"),
							progressbar.OptionSetWriter(os.Stderr),
							progressbar.OptionShowCount(),
							progressbar.OptionClearOnFinish())
					}
					_ = bar.Set(done)
				})
			}

			snap, err := deps.library.Rebuild(cmd.Context())
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Cached %d albums and %d tracks (%d latest entries).\n",
				len(snap.Albums), len(snap.Tracks), len(snap.Latest))
			return nil
		},
	}
	cmd.Flags().BoolVar(&ifMissing, "if-missing", false, "Only rebuild when a cache file is missing")
	cmd.Flags().BoolVar(&rescan, "rescan", false, "Ask the daemon to rescan its music directory first")
	return cmd
}

// rescanDatabase triggers a daemon database rescan and waits for it to finish
// so the rebuild that follows reads the refreshed database.
func rescanDatabase(ctx context.Context, out io.Writer, client *mpdclient.Client) error {
	job, err := client.Update(ctx)
	if err != nil {
		return fmt.Errorf("start database rescan: %w", err)
	}
	fmt.Fprintf(out, "Database rescan started (job %d).\n", job)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		status, err := client.Status(ctx)
		if err != nil {
			return fmt.Errorf("wait for database rescan: %w", err)
		}
		if !status.UpdatingDB {
			return nil
		}
	}
}
