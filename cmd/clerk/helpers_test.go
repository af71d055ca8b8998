package main

import (
	"context"
	"testing"

	"github.com/carnager/clerk-modular/internal/api"
	"github.com/carnager/clerk-modular/internal/menu"
	"github.com/carnager/clerk-modular/internal/ratings"
)

func TestFormatAlbumLinesRoundTrip(t *testing.T) {
	entries := []api.AlbumEntry{
		{Artist: "Neun Welten", Date: "2006", Album: "Vergessene Pfade", ID: "0", Rating: "7"},
		{Artist: "B", Date: "2021", Album: "Y", ID: "12"},
	}

	lines := formatAlbumLines(entries)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	requireContains(t, lines[0], "r=7")
	requireContains(t, lines[1], "r=-")

	// Ids survive parsing even when tag values contain spaces.
	ids := selectedIDs(lines)
	if len(ids) != 2 || ids[0] != "0" || ids[1] != "12" {
		t.Fatalf("ids = %v, want [0 12]", ids)
	}
}

func TestFormatTrackLinesRoundTrip(t *testing.T) {
	entries := []api.TrackEntry{
		{Number: "1", Title: "Der Wald", Artist: "Neun Welten", Album: "Destrunken", Date: "2008", ID: "3", Rating: "9"},
		{Number: "12", Title: "b", Artist: "B", Album: "Y", Date: "2021", ID: "40"},
	}

	lines := formatTrackLines(entries)
	requireContains(t, lines[0], "r=9")

	ids := selectedIDs(lines)
	if len(ids) != 2 || ids[0] != "3" || ids[1] != "40" {
		t.Fatalf("ids = %v, want [3 40]", ids)
	}
}

func TestSelectedIDsSkipsShortLines(t *testing.T) {
	ids := selectedIDs([]string{"", "justone", "two fields"})
	if len(ids) != 1 || ids[0] != "two" {
		t.Fatalf("ids = %v, want [two]", ids)
	}
}

func TestPickRatingOffersFullDomain(t *testing.T) {
	var seen []string
	selector := menu.Func(func(_ context.Context, _ string, options []string) ([]string, error) {
		seen = options
		return []string{"10"}, nil
	})

	rating, err := pickRating(context.Background(), selector, "Rate")
	if err != nil {
		t.Fatalf("pickRating: %v", err)
	}
	if rating != ratings.Rating("10") {
		t.Fatalf("rating = %q, want 10", rating)
	}
	if len(seen) != 12 || seen[0] != "1" || seen[10] != "---" || seen[11] != "Delete" {
		t.Fatalf("options = %v", seen)
	}
}

func TestPickRatingDeclineSkips(t *testing.T) {
	selector := menu.Func(func(context.Context, string, []string) ([]string, error) {
		return nil, nil
	})

	rating, err := pickRating(context.Background(), selector, "Rate")
	if err != nil {
		t.Fatalf("pickRating: %v", err)
	}
	if rating != ratings.RatingSkip {
		t.Fatalf("rating = %q, want skip", rating)
	}
}

func TestPickRatingRejectsUnknownEntry(t *testing.T) {
	selector := menu.Func(func(context.Context, string, []string) ([]string, error) {
		return []string{"eleven"}, nil
	})

	if _, err := pickRating(context.Background(), selector, "Rate"); err == nil {
		t.Fatal("expected an error for a value outside the rating domain")
	}
}

func TestRatingPrompt(t *testing.T) {
	if got := ratingPrompt("A - X", "7"); got != "Rate A - X [r=7]" {
		t.Fatalf("ratingPrompt = %q", got)
	}
	if got := ratingPrompt("A - X", ""); got != "Rate A - X [r=-]" {
		t.Fatalf("ratingPrompt = %q", got)
	}
}

func TestSortArtistsIgnoresCase(t *testing.T) {
	values := []string{"beta", "alto", "Alpha"}
	sortArtists(values)

	want := []string{"Alpha", "alto", "beta"}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("values = %v, want %v", values, want)
		}
	}
}
