package ratings

import (
	"fmt"
	"strconv"
)

// Rating is a rating decision: a score of "1" through "10", RatingDelete to
// clear a stored score, or RatingSkip to decline without changing anything.
// The score strings double as the stored wire values, shared with earlier
// clerk implementations.
type Rating string

const (
	// RatingSkip is the menu's explicit "leave unchanged" entry.
	RatingSkip Rating = "---"
	// RatingDelete removes a stored rating.
	RatingDelete Rating = "Delete"
)

// ParseRating validates a raw value against the closed rating domain.
func ParseRating(value string) (Rating, error) {
	r := Rating(value)
	if !r.Valid() {
		return "", fmt.Errorf("invalid rating %q", value)
	}
	return r, nil
}

// Valid reports whether the value belongs to the rating domain.
func (r Rating) Valid() bool {
	return r == RatingSkip || r == RatingDelete || r.IsScore()
}

// IsScore reports whether the rating is a numeric score "1".."10".
func (r Rating) IsScore() bool {
	n, err := strconv.Atoi(string(r))
	if err != nil || n < 1 || n > 10 {
		return false
	}
	return string(r) == strconv.Itoa(n)
}

func (r Rating) String() string {
	return string(r)
}

// Scores returns the ten score values in menu order.
func Scores() []Rating {
	out := make([]Rating, 0, 10)
	for n := 1; n <= 10; n++ {
		out = append(out, Rating(strconv.Itoa(n)))
	}
	return out
}
