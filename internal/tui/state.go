package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/tui/layout"
)

// Mode is the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeAdd
	ModeConfirmDelete
	ModeHelp
)

// MessageType classifies the transient message under the list.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// Add form fields.
const (
	fieldURL = iota
	fieldTitle
)

// AddState holds state for the add-URL form.
type AddState struct {
	URLInput   textinput.Model
	TitleInput textinput.Model
	Focus      int // fieldURL or fieldTitle

	// Prefetch result for the URL currently in URLInput.
	FetchedURL   string
	FetchedTitle string
	Fetching     bool
	Submitting   bool
}

// NewAddState creates a new AddState with initialized inputs.
func NewAddState(cfg layout.LayoutConfig) AddState {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://..."
	urlInput.CharLimit = cfg.Input.URLCharLimit
	urlInput.Width = cfg.Input.StandardWidth

	titleInput := textinput.New()
	titleInput.Placeholder = "Title (optional)"
	titleInput.CharLimit = cfg.Input.TitleCharLimit
	titleInput.Width = cfg.Input.StandardWidth

	return AddState{
		URLInput:   urlInput,
		TitleInput: titleInput,
	}
}

// Reset clears the form for a new session.
func (s *AddState) Reset() {
	s.URLInput.Reset()
	s.TitleInput.Reset()
	s.TitleInput.Placeholder = "Title (optional)"
	s.Focus = fieldURL
	s.FetchedURL = ""
	s.FetchedTitle = ""
	s.Fetching = false
	s.Submitting = false
}

// Title resolves the title to submit: typed text wins, then a prefetched
// title for the same URL. Blank means the capture flow derives one.
func (s AddState) Title(url string) string {
	if t := s.TitleInput.Value(); t != "" {
		return t
	}
	if s.FetchedURL == url {
		return s.FetchedTitle
	}
	return ""
}

// FilterState holds state for the substring filter on the current tab.
type FilterState struct {
	Input textinput.Model
	Query string // Active filter query (persists after closing filter)
}

// NewFilterState creates a new FilterState with an initialized input.
func NewFilterState(cfg layout.LayoutConfig) FilterState {
	input := textinput.New()
	input.Placeholder = "Filter..."
	input.CharLimit = cfg.Input.FilterCharLimit
	input.Width = cfg.Input.FilterWidth
	return FilterState{Input: input}
}

// Reset clears the filter.
func (f *FilterState) Reset() {
	f.Input.Reset()
	f.Query = ""
}

// TabState is the item list of one state tab.
type TabState struct {
	State  model.State
	Items  []model.Item // after filtering
	Total  int          // before filtering
	Cursor int
}

// Current returns the item under the cursor.
func (t TabState) Current() (model.Item, bool) {
	if t.Cursor < 0 || t.Cursor >= len(t.Items) {
		return model.Item{}, false
	}
	return t.Items[t.Cursor], true
}

// clamp keeps the cursor inside the list after it changes.
func (t *TabState) clamp() {
	if t.Cursor >= len(t.Items) {
		t.Cursor = len(t.Items) - 1
	}
	if t.Cursor < 0 {
		t.Cursor = 0
	}
}
