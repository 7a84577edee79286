package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/tui/layout"
)

// renderView creates the complete tabbed list view.
func (a App) renderView() string {
	switch a.mode {
	case ModeHelp:
		return a.renderHelpOverlay()
	case ModeAdd, ModeConfirmDelete:
		return a.renderModal()
	}

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			a.renderTabs(),
			a.renderStatusLine(),
			a.renderList(),
			a.renderHelpBar(),
		),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderTabs renders "rl  Inbox 3/5  Bookmarks 12  Archive 40" with the
// active tab highlighted.
func (a App) renderTabs() string {
	parts := []string{a.styles.Title.Render("rl")}
	for i, t := range a.tabs {
		label := fmt.Sprintf("%s %d", t.State.Label(), t.Total)
		if t.State == model.StateInbox {
			label = fmt.Sprintf("%s %d/%d", t.State.Label(), t.Total, a.status.Max)
		}
		if i == a.active {
			parts = append(parts, a.styles.TabActive.Render(label))
		} else {
			parts = append(parts, a.styles.Tab.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// renderStatusLine shows the filter input or query, and the Inbox capacity
// indicator while the Inbox tab is active.
func (a App) renderStatusLine() string {
	var parts []string

	if a.mode == ModeFilter {
		parts = append(parts, "/"+a.filter.Input.View())
	} else if a.filter.Query != "" {
		parts = append(parts, a.styles.URL.Render(fmt.Sprintf("filter: %q (%d/%d)", a.filter.Query, len(a.tab().Items), a.tab().Total)))
	}

	if a.tab().State == model.StateInbox {
		parts = append(parts, a.renderCapacity())
	}

	return strings.Join(parts, "  ")
}

// renderCapacity renders the Inbox admission state: remaining slots, a
// warning near the threshold, or the full notice.
func (a App) renderCapacity() string {
	s := a.status
	switch {
	case s.Full:
		return a.styles.Full.Render(fmt.Sprintf("Inbox full (%d/%d): bookmark, archive or delete to make room", s.Count, s.Max))
	case s.NearCapacity:
		return a.styles.Warning.Render(fmt.Sprintf("Inbox almost full: %d left", s.Remaining))
	default:
		return a.styles.Capacity.Render(fmt.Sprintf("%d left", s.Remaining))
	}
}

// renderList renders the visible window of the current tab.
func (a App) renderList() string {
	t := a.tab()
	lay := layout.CalculateListLayout(a.width, a.height, a.layoutConfig.List)

	var lines []string
	if len(t.Items) == 0 {
		lines = append(lines, a.styles.Empty.Render(a.emptyText()))
	} else {
		offset := layout.CalculateViewportOffset(t.Cursor, len(t.Items), lay.Height)
		end := offset + lay.Height
		if end > len(t.Items) {
			end = len(t.Items)
		}
		for i := offset; i < end; i++ {
			lines = append(lines, a.renderItem(t.Items[i], i == t.Cursor, lay))
		}
	}

	// Pad so the help bar stays at the bottom
	for len(lines) < lay.Height {
		lines = append(lines, "")
	}
	return "\n" + strings.Join(lines, "\n")
}

func (a App) emptyText() string {
	if a.filter.Query != "" {
		return fmt.Sprintf("No matches for %q", a.filter.Query)
	}
	switch a.tab().State {
	case model.StateInbox:
		return "Inbox is empty. Press n to add a URL."
	case model.StateBookmark:
		return "No bookmarks yet."
	default:
		return "Archive is empty."
	}
}

// renderItem renders one row: title, then age and host.
func (a App) renderItem(item model.Item, isCursor bool, lay layout.ListLayout) string {
	title := layout.FitText(item.Title, lay.TitleWidth, a.layoutConfig.Text)

	var meta string
	if lay.HostWidth > 0 {
		host := model.NormalizedURL(item.URL).Hostname()
		age := layout.FormatAge(item.StateEnteredAt, a.now())
		meta = layout.FitText(age+"  "+host, lay.HostWidth, a.layoutConfig.Text)
	}

	if isCursor {
		line := title
		if meta != "" {
			line += " " + meta
		}
		return a.styles.ItemSelected.Render(line)
	}

	line := a.styles.Item.Render(title)
	if meta != "" {
		line += " " + a.styles.URL.Render(meta)
	}
	return line
}

// renderHelpBar renders the message line and keyboard hints.
func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	// Line 2: Local (contextual) keyboard hints
	local := a.renderHints(a.getContextualHints())
	if a.mode == ModeNormal {
		local += "  " + a.renderConfirmToggle()
	}
	lines = append(lines, a.styles.HintLabel.Render("Local  ")+local)

	// Line 3: Global keyboard hints (only in normal mode)
	if a.mode == ModeNormal {
		lines = append(lines, a.styles.HintLabel.Render("Global ")+a.renderHintSlice(a.getGlobalHints()))
	}

	return strings.Join(lines, "\n")
}

// renderConfirmToggle renders the [cfm:X] indicator.
func (a App) renderConfirmToggle() string {
	if a.confirmDelete {
		return a.styles.HintDesc.Render("[cfm:on]")
	}
	return a.styles.HintDesc.Render("[cfm:off]")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	var msgStyle lipgloss.Style
	var prefix string

	switch a.messageType {
	case MessageError:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}).
			Bold(true)
		prefix = "✗ "
	case MessageWarning:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Bold(true)
		prefix = "⚠ "
	case MessageSuccess:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true)
		prefix = "✓ "
	default: // MessageInfo
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}).
			Bold(true)
	}

	text, _ := layout.TruncateText(a.messageText, a.width-6, a.layoutConfig.Text)
	return msgStyle.Render(prefix + text)
}

// renderModal renders the add form or the delete confirmation centered
// on screen.
func (a App) renderModal() string {
	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)

	var body string
	switch a.mode {
	case ModeAdd:
		body = a.renderAddForm()
	case ModeConfirmDelete:
		body = a.renderConfirmDelete(modalWidth)
	}

	box := a.styles.Modal.Width(modalWidth).Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

func (a App) renderAddForm() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Add to Inbox"))
	b.WriteString("  ")
	b.WriteString(a.renderCapacity())
	b.WriteString("\n\n")

	b.WriteString("URL\n")
	b.WriteString(a.add.URLInput.View())
	b.WriteString("\n\n")

	b.WriteString("Title")
	if a.add.Fetching {
		b.WriteString(a.styles.URL.Render("  fetching..."))
	}
	b.WriteString("\n")
	b.WriteString(a.add.TitleInput.View())
	b.WriteString("\n")

	if a.messageText != "" && a.messageType >= MessageWarning {
		b.WriteString("\n")
		b.WriteString(a.renderMessageLine())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.add.Submitting {
		b.WriteString(a.styles.Help.Render("adding..."))
	} else {
		b.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "add"},
			{Key: "Tab", Desc: "next field"},
			{Key: "Esc", Desc: "cancel"},
		}))
	}

	return b.String()
}

func (a App) renderConfirmDelete(width int) string {
	item := a.pendingDelete
	title, _ := layout.TruncateText(item.Title, width-4, a.layoutConfig.Text)
	url, _ := layout.TruncateText(item.URL, width-4, a.layoutConfig.Text)

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Delete from " + item.State.Label() + "?"))
	b.WriteString("\n\n")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(a.styles.URL.Render(url))
	b.WriteString("\n\n")
	b.WriteString(a.renderHintsInline([]Hint{
		{Key: "y", Desc: "delete"},
		{Key: "n/Esc", Desc: "keep"},
	}))
	return b.String()
}

// renderHelpOverlay renders the full-screen key reference.
func (a App) renderHelpOverlay() string {
	modalStyle := lipgloss.NewStyle().
		Padding(1, 2)

	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k  move\n")
	left.WriteString("gg   top\n")
	left.WriteString("G    bottom\n")
	left.WriteString("h/l  prev/next tab\n")
	left.WriteString("1-3  jump to tab\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("act") + "\n")
	left.WriteString("o    open url\n")
	left.WriteString("Y    yank url\n")
	left.WriteString("/    filter\n")
	left.WriteString("r    reload\n")

	var right strings.Builder
	right.WriteString(a.styles.Title.Render("triage") + "\n")
	right.WriteString("n    add to inbox\n")
	right.WriteString("b    bookmark\n")
	right.WriteString("a    archive\n")
	right.WriteString("i    back to inbox\n")
	right.WriteString("d    delete\n")
	right.WriteString("c    confirm toggle\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Title.Render("inbox") + "\n")
	right.WriteString(fmt.Sprintf("holds %d items\n", a.status.Max))
	right.WriteString(fmt.Sprintf("warns at %d\n", a.status.WarningThreshold))
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close"))

	leftCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpLeftColumnWidth).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpRightColumnWidth).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(cols),
	)
}
