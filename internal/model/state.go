package model

import "fmt"

// State is the triage bucket an item currently lives in.
type State string

const (
	StateInbox    State = "inbox"
	StateBookmark State = "bookmark"
	StateArchive  State = "archive"
)

// States lists every state in display order.
var States = []State{StateInbox, StateBookmark, StateArchive}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateInbox, StateBookmark, StateArchive:
		return true
	}
	return false
}

// Label returns the human readable name of the state's bucket.
func (s State) Label() string {
	switch s {
	case StateInbox:
		return "Inbox"
	case StateBookmark:
		return "Bookmarks"
	case StateArchive:
		return "Archive"
	}
	return string(s)
}

// ParseState accepts the canonical names plus a few plural/short aliases.
func ParseState(s string) (State, error) {
	switch s {
	case "inbox", "i":
		return StateInbox, nil
	case "bookmark", "bookmarks", "b":
		return StateBookmark, nil
	case "archive", "archived", "a":
		return StateArchive, nil
	}
	return "", fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, s)
}
