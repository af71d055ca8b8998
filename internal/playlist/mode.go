package playlist

import "fmt"

// Mode selects how queued tracks relate to the existing play queue.
type Mode string

const (
	// ModeAdd appends to the end of the queue.
	ModeAdd Mode = "add"
	// ModeInsert places tracks right after the playing song and starts
	// playback of the first one.
	ModeInsert Mode = "insert"
	// ModeReplace clears the queue first and starts playback.
	ModeReplace Mode = "replace"
)

// ParseMode validates a queue mode given on the command line.
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeAdd, ModeInsert, ModeReplace:
		return Mode(value), nil
	default:
		return "", fmt.Errorf("unknown queue mode %q (add, insert, replace)", value)
	}
}
