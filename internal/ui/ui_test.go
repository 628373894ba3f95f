package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	DisableColor()

	assert.Equal(t, "░░░░░░░░░░   0%", Bar(0, 10))
	assert.Equal(t, "█████░░░░░  50%", Bar(0.5, 10))
	assert.Equal(t, "██████████ 100%", Bar(1, 10))
	assert.Equal(t, "██████████ 100%", Bar(3, 10), "clamped above")
	assert.Equal(t, "░░░░░░░░░░   0%", Bar(math.NaN(), 10))
	assert.Equal(t, 1, strings.Count(Bar(0.7, 0), "█"), "width floor of one")
}

func TestSetTheme(t *testing.T) {
	SetTheme("light")
	assert.Equal(t, lipgloss.Color(AccentLight), Accent.GetForeground())
	SetTheme("dark")
	assert.Equal(t, lipgloss.Color(AccentDark), Accent.GetForeground())
}
