package layout

import "testing"

func TestCalculateModalWidth(t *testing.T) {
	cfg := DefaultConfig().Modal

	tests := []struct {
		name          string
		terminalWidth int
		percent       int
		want          int
	}{
		{"wide terminal clamps to max", 200, 50, 80},
		{"percent of terminal", 120, 50, 60},
		{"small percent clamps to min", 80, 50, 50},
		{"narrow terminal leaves margin", 50, 50, 46},
		{"tiny terminal clamps to 1", 4, 50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateModalWidth(tt.terminalWidth, tt.percent, cfg)
			if got != tt.want {
				t.Errorf("CalculateModalWidth(%d, %d) = %d, want %d",
					tt.terminalWidth, tt.percent, got, tt.want)
			}
		})
	}
}
