package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/carnager/clerk-modular/internal/api"
	"github.com/carnager/clerk-modular/internal/menu"
	"github.com/carnager/clerk-modular/internal/ratings"
)

// Action labels shared by the album, track, and current-song menus.
const (
	actionAdd        = "Add To List"
	actionInsert     = "Insert After Current"
	actionReplace    = "Replace List"
	actionRateAlbums = "Rate Album(s)"
	actionRateAlbum  = "Rate Album (Local)"
	actionRateTrack  = "Rate Track (MPD Sticker)"
)

// formatAlbumLines renders albums as aligned menu lines. The view-local id
// sits second to last so selections survive spaces inside tag values.
func formatAlbumLines(entries []api.AlbumEntry) []string {
	var widths [4]int
	for _, e := range entries {
		for i, cell := range albumCells(e) {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		cells := albumCells(e)
		lines = append(lines, fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s",
			widths[0], cells[0],
			widths[1], cells[1],
			widths[2], cells[2],
			widths[3], cells[3],
			api.RatingText(e.Rating)))
	}
	return lines
}

func albumCells(e api.AlbumEntry) [4]string {
	return [4]string{e.Artist, e.Date, e.Album, e.ID}
}

// formatTrackLines renders tracks as aligned menu lines, id second to last.
func formatTrackLines(entries []api.TrackEntry) []string {
	var widths [6]int
	for _, e := range entries {
		for i, cell := range trackCells(e) {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		cells := trackCells(e)
		lines = append(lines, fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %-*s  %s",
			widths[0], cells[0],
			widths[1], cells[1],
			widths[2], cells[2],
			widths[3], cells[3],
			widths[4], cells[4],
			widths[5], cells[5],
			api.RatingText(e.Rating)))
	}
	return lines
}

func trackCells(e api.TrackEntry) [6]string {
	return [6]string{e.Number, e.Title, e.Artist, e.Album, e.Date, e.ID}
}

// selectedIDs pulls the view-local id out of each chosen menu line. The id
// is the second-to-last whitespace field; lines too short to carry one are
// dropped.
func selectedIDs(lines []string) []string {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ids = append(ids, fields[len(fields)-2])
	}
	return ids
}

// pickRating presents the score menu: 1 through 10, skip, delete. Declining
// the menu counts as a skip.
func pickRating(ctx context.Context, selector menu.Selector, prompt string) (ratings.Rating, error) {
	options := make([]string, 0, 12)
	for _, score := range ratings.Scores() {
		options = append(options, string(score))
	}
	options = append(options, string(ratings.RatingSkip), string(ratings.RatingDelete))

	choice, err := selector.Pick(ctx, prompt, options)
	if err != nil {
		return "", err
	}
	if choice == "" {
		return ratings.RatingSkip, nil
	}
	return ratings.ParseRating(strings.TrimSpace(choice))
}

// ratingPrompt names the rated subject and its stored score.
func ratingPrompt(subject, current string) string {
	return fmt.Sprintf("Rate %s [%s]", subject, api.RatingText(current))
}

// reportRating prints one line per rating decision.
func reportRating(out io.Writer, subject string, rating ratings.Rating, changed bool) {
	switch {
	case rating == ratings.RatingSkip:
		fmt.Fprintf(out, "%s: unchanged\n", subject)
	case rating == ratings.RatingDelete && changed:
		fmt.Fprintf(out, "%s: rating removed\n", subject)
	case rating == ratings.RatingDelete:
		fmt.Fprintf(out, "%s: no rating to remove\n", subject)
	case changed:
		fmt.Fprintf(out, "%s: rated %s\n", subject, rating)
	default:
		fmt.Fprintf(out, "%s: already rated %s\n", subject, rating)
	}
}

// sortArtists orders artist names case-insensitively, in place.
func sortArtists(values []string) {
	collate.New(language.Und, collate.IgnoreCase).SortStrings(values)
}
