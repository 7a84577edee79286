package picker

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/search"
)

func results(titles ...string) []search.SearchResult {
	out := make([]search.SearchResult, len(titles))
	for i, title := range titles {
		out[i] = search.SearchResult{Item: model.Item{
			ID:    fmt.Sprintf("i%d", i),
			Title: title,
			URL:   "https://" + strings.ToLower(title) + ".com",
			State: model.StateBookmark,
		}}
	}
	return out
}

func press(p Picker, key string) (Picker, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, cmd := p.Update(msg)
	return m.(Picker), cmd
}

func TestPicker_Navigate(t *testing.T) {
	p := New(results("GitHub", "GitLab"), "git")

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}

	p, _ = press(p, "j")
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1, got %d", p.cursor)
	}

	// bounded at the end
	p, _ = press(p, "j")
	if p.cursor != 1 {
		t.Errorf("expected cursor to stay at 1, got %d", p.cursor)
	}

	p, _ = press(p, "k")
	p, _ = press(p, "k")
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_ArrowKeysAndJumps(t *testing.T) {
	p := New(results("A", "B", "C"), "x")

	p, _ = press(p, "down")
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after down arrow, got %d", p.cursor)
	}
	p, _ = press(p, "G")
	if p.cursor != 2 {
		t.Errorf("expected cursor at 2 after G, got %d", p.cursor)
	}
	p, _ = press(p, "g")
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 after g, got %d", p.cursor)
	}
	p, _ = press(p, "up")
	if p.cursor != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", p.cursor)
	}
}

func TestPicker_SelectItem(t *testing.T) {
	p := New(results("GitHub", "GitLab"), "git")
	p.cursor = 1

	p, cmd := press(p, "enter")
	if cmd == nil {
		t.Error("expected quit command after selection")
	}

	item, ok := p.SelectedItem()
	if !ok {
		t.Fatal("expected a selection")
	}
	if item.Title != "GitLab" {
		t.Errorf("expected GitLab, got %s", item.Title)
	}
}

func TestPicker_Cancel(t *testing.T) {
	p := New(results("GitHub"), "git")

	p, cmd := press(p, "esc")
	if !p.Cancelled() {
		t.Error("expected cancelled to be true after Esc")
	}
	if cmd == nil {
		t.Error("expected quit command after cancel")
	}
	if _, ok := p.SelectedItem(); ok {
		t.Error("expected no selection when cancelled")
	}
}

func TestPicker_ScrollsWithCursor(t *testing.T) {
	p := New(results("A", "B", "C", "D", "E", "F", "G", "H"), "x")
	m, _ := p.Update(tea.WindowSizeMsg{Width: 80, Height: 9}) // two results visible
	p = m.(Picker)

	for i := 0; i < 4; i++ {
		p, _ = press(p, "j")
	}
	if p.offset != 3 {
		t.Errorf("expected offset 3, got %d", p.offset)
	}

	view := p.View()
	if strings.Contains(view, "https://a.com") {
		t.Error("expected first result scrolled out of view")
	}
	if !strings.Contains(view, "https://e.com") {
		t.Error("expected cursor result in view")
	}
}

func TestPicker_ViewShowsState(t *testing.T) {
	p := New(results("GitHub"), "git")
	view := p.View()

	if !strings.Contains(view, "[Bookmarks]") {
		t.Error("expected state label in view")
	}
	if !strings.Contains(view, "1 results") {
		t.Error("expected result count in header")
	}
}
