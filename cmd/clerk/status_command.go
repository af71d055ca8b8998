package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/carnager/clerk-modular/internal/library"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon connectivity and cache counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.ensureDeps()
			if err != nil {
				return err
			}
			_, addr := deps.cfg.MPDAddress()

			rows := [][]string{{"Daemon", addr}}
			if version, err := deps.mpd.Version(cmd.Context()); err == nil {
				rows = append(rows, []string{"Daemon status", "online (MPD " + version + ")"})
				if st, err := deps.mpd.Status(cmd.Context()); err == nil {
					playback := st.State
					if st.Playing() {
						if info, ok, err := deps.mpd.CurrentSong(cmd.Context()); err == nil && ok {
							playback = fmt.Sprintf("playing %s - %s [%s]",
								info.Artist.Display(), info.Title.Display(), st.Elapsed.Round(time.Second))
						}
					}
					rows = append(rows, []string{"Playback", playback})
					if st.PlaylistLength > 0 {
						queue := strconv.Itoa(st.PlaylistLength) + " songs"
						if st.Song >= 0 {
							queue = fmt.Sprintf("song %d of %d", st.Song+1, st.PlaylistLength)
						}
						rows = append(rows, []string{"Queue", queue})
					}
				}
				if stats, err := deps.mpd.Stats(cmd.Context()); err == nil {
					rows = append(rows, []string{"Database",
						fmt.Sprintf("%d songs, %d albums, %d artists", stats.Songs, stats.Albums, stats.Artists)})
					if !stats.DBUpdated.IsZero() {
						rows = append(rows, []string{"Database updated", stats.DBUpdated.Format(time.RFC1123)})
					}
				}
			} else {
				rows = append(rows, []string{"Daemon status", "offline"})
			}
			rows = append(rows, []string{"Data directory", deps.cfg.Library.DataDir})

			if library.Stale(deps.files) {
				rows = append(rows, []string{"Caches", "stale (run clerk update)"})
			} else {
				status, err := deps.library.Status()
				if err != nil {
					return err
				}
				rows = append(rows,
					[]string{"Albums", strconv.Itoa(status.Albums)},
					[]string{"Latest entries", strconv.Itoa(status.Latest)},
					[]string{"Tracks", strconv.Itoa(status.Tracks)})
				if !status.BuiltAt.IsZero() {
					rows = append(rows, []string{"Built", status.BuiltAt.Format(time.RFC1123)})
				}
			}
			rows = append(rows, []string{"Rated albums", strconv.Itoa(deps.ratings.Count())})

			renderTable(cmd.OutOrStdout(), []string{"Item", "Value"}, rows)
			return nil
		},
	}
}
