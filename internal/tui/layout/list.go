package layout

// ListLayout holds calculated item list dimensions.
type ListLayout struct {
	Height     int // visible rows
	TitleWidth int
	HostWidth  int
}

// CalculateListHeight computes the number of visible list rows.
// Returns at least MinHeight.
func CalculateListHeight(terminalHeight int, cfg ListConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculateListLayout splits the terminal into list rows and the title/host
// columns of each row. The host column is dropped on narrow terminals.
func CalculateListLayout(terminalWidth, terminalHeight int, cfg ListConfig) ListLayout {
	width := terminalWidth - cfg.ContentPadding
	if width < 1 {
		width = 1
	}

	host := width * cfg.URLColumnPercent / 100
	if host < 12 {
		host = 0
	}

	title := width - host
	if host > 0 {
		title-- // gap
	}

	return ListLayout{
		Height:     CalculateListHeight(terminalHeight, cfg),
		TitleWidth: title,
		HostWidth:  host,
	}
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
