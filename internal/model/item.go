package model

import "time"

// Item is a captured URL in exactly one triage state.
type Item struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	State          State     `json:"state"`
	CapturedAt     time.Time `json:"capturedAt"`     // first admission into Inbox, never changes
	StateEnteredAt time.Time `json:"stateEnteredAt"` // entry into the current state
}

// ItemData is the validated, state-agnostic payload produced by NewItemData.
type ItemData struct {
	URL   string
	Title string
}

// Metadata is what a metadata fetch may return for a URL.
type Metadata struct {
	Title       string
	Description string
}

// NewInboxItem creates an Inbox item with generated UUID and timestamps.
func NewInboxItem(data ItemData, now time.Time) Item {
	return Item{
		ID:             GenerateUUID(),
		URL:            data.URL,
		Title:          data.Title,
		State:          StateInbox,
		CapturedAt:     now,
		StateEnteredAt: now,
	}
}

// BookmarkedAt returns when the item was bookmarked, if it is a bookmark.
func (i Item) BookmarkedAt() (time.Time, bool) {
	if i.State != StateBookmark {
		return time.Time{}, false
	}
	return i.StateEnteredAt, true
}

// ArchivedAt returns when the item was archived, if it is archived.
func (i Item) ArchivedAt() (time.Time, bool) {
	if i.State != StateArchive {
		return time.Time{}, false
	}
	return i.StateEnteredAt, true
}
