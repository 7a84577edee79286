package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	List  ListConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// ListConfig holds item list dimension configuration.
type ListConfig struct {
	// HeightReduction is subtracted from terminal height for list content.
	// Accounts for: app padding (1) + tabs (2) + status line (1) + help bar (3) = 7
	HeightReduction int

	// MinHeight is the minimum list height.
	MinHeight int

	// ContentPadding is subtracted from terminal width for item rendering.
	// Accounts for app padding and the item indent.
	ContentPadding int

	// URLColumnPercent is the share of item width given to the host column.
	URLColumnPercent int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// HelpLeftColumnWidth: width for help overlay left column.
	HelpLeftColumnWidth int

	// HelpRightColumnWidth: width for help overlay right column.
	HelpRightColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	TitleCharLimit  int
	URLCharLimit    int
	FilterCharLimit int

	StandardWidth int // Used for title and URL inputs
	FilterWidth   int // Used for filter input (narrower)
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		List: ListConfig{
			HeightReduction:  7,
			MinHeight:        3,
			ContentPadding:   6,
			URLColumnPercent: 30,
		},
		Modal: ModalConfig{
			DefaultWidthPercent:  50,
			MinWidth:             50,
			MaxWidth:             80,
			HelpLeftColumnWidth:  18,
			HelpRightColumnWidth: 22,
		},
		Input: InputConfig{
			TitleCharLimit:  200,
			URLCharLimit:    2000,
			FilterCharLimit: 50,
			StandardWidth:   50,
			FilterWidth:     30,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
