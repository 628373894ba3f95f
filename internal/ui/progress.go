package ui

import (
	"fmt"
	"math"
	"strings"
)

// Bar renders a fixed-width progress bar for a fraction in [0, 1].
func Bar(fraction float64, width int) string {
	if width < 1 {
		width = 1
	}
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(math.Round(fraction * float64(width)))
	bar := Accent.Render(strings.Repeat("█", filled)) + Dim.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3d%%", bar, int(math.Round(fraction*100)))
}
