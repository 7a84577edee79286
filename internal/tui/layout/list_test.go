package layout

import "testing"

func TestCalculateListHeight(t *testing.T) {
	cfg := DefaultConfig().List

	tests := []struct {
		name           string
		terminalHeight int
		want           int
	}{
		{"standard terminal", 24, 17},
		{"tall terminal", 50, 43},
		{"clamps to min", 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateListHeight(tt.terminalHeight, cfg); got != tt.want {
				t.Errorf("CalculateListHeight(%d) = %d, want %d", tt.terminalHeight, got, tt.want)
			}
		})
	}
}

func TestCalculateListLayout(t *testing.T) {
	cfg := DefaultConfig().List

	got := CalculateListLayout(80, 24, cfg)
	if got.Height != 17 || got.TitleWidth != 51 || got.HostWidth != 22 {
		t.Errorf("CalculateListLayout(80, 24) = %+v", got)
	}

	narrow := CalculateListLayout(30, 24, cfg)
	if narrow.HostWidth != 0 {
		t.Errorf("narrow terminal should drop host column, got %d", narrow.HostWidth)
	}
	if narrow.TitleWidth != 24 {
		t.Errorf("narrow title width = %d, want 24", narrow.TitleWidth)
	}
}

func TestCalculateViewportOffset(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		total    int
		height   int
		want     int
	}{
		{"fits in viewport", 3, 5, 10, 0},
		{"near top", 2, 20, 10, 0},
		{"centered", 10, 20, 10, 5},
		{"near bottom clamps", 19, 20, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateViewportOffset(tt.selected, tt.total, tt.height)
			if got != tt.want {
				t.Errorf("CalculateViewportOffset(%d, %d, %d) = %d, want %d",
					tt.selected, tt.total, tt.height, got, tt.want)
			}
		})
	}
}
