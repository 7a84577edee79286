package tui

import (
	"strings"

	"github.com/nikbrunner/rl/internal/model"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHintSlice renders hints in horizontal format for the bottom bar: "j/k:move b:bookmark"
func (a App) renderHintSlice(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHints renders a HintSet in display order.
func (a App) renderHints(hints HintSet) string {
	return a.renderHintSlice(hints.All())
}

// renderHintsInline renders hints in inline format for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, h/l, etc.)
	Edit   []Hint // Edit hints (b, a, d, etc.)
	Action []Hint // Action hints (Enter, Tab, etc.)
	System []Hint // System hints (?, q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		return a.getNormalModeHints()
	case ModeFilter:
		return HintSet{
			Nav:    []Hint{{Key: "type", Desc: "filter"}},
			Action: []Hint{{Key: "Enter", Desc: "apply"}},
			System: []Hint{{Key: "Esc", Desc: "clear"}},
		}
	case ModeAdd:
		if a.add.Submitting {
			return HintSet{System: []Hint{{Key: "", Desc: "adding..."}}}
		}
		return HintSet{
			Nav:    []Hint{{Key: "Tab", Desc: "next"}},
			Action: []Hint{{Key: "Enter", Desc: "add"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case ModeHelp:
		// Help overlay covers screen, minimal hints
		return HintSet{
			System: []Hint{{Key: "?/q/Esc", Desc: "close"}},
		}
	default:
		// ModeConfirmDelete shows its hints inside the modal.
		return HintSet{}
	}
}

// getNormalModeHints returns hints for the item list. Move hints only name
// the states the current tab can move to.
func (a App) getNormalModeHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "h/l", Desc: "tab"},
		},
		Action: []Hint{
			{Key: "o", Desc: "open"},
			{Key: "/", Desc: "filter"},
		},
	}

	if len(a.tab().Items) == 0 {
		return hints
	}

	switch a.tab().State {
	case model.StateInbox:
		hints.Edit = []Hint{{Key: "b", Desc: "bookmark"}, {Key: "a", Desc: "archive"}}
	case model.StateBookmark:
		hints.Edit = []Hint{{Key: "i", Desc: "inbox"}, {Key: "a", Desc: "archive"}}
	case model.StateArchive:
		hints.Edit = []Hint{{Key: "i", Desc: "inbox"}, {Key: "b", Desc: "bookmark"}}
	}
	hints.Edit = append(hints.Edit, Hint{Key: "d", Desc: "del"})
	return hints
}

// getGlobalHints returns hints available from every tab.
func (a App) getGlobalHints() []Hint {
	return []Hint{
		{Key: "n", Desc: "add"},
		{Key: "Y", Desc: "yank"},
		{Key: "r", Desc: "reload"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}
}
