package tui

import (
	"github.com/blackwell-systems/shelfcount/internal/classify"
	"github.com/charmbracelet/lipgloss"
)

// Color palette matching existing fatih/color usage
var (
	ColorGreen  = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}
	ColorCyan   = lipgloss.AdaptiveColor{Light: "#00AFAF", Dark: "#00D7D7"}
	ColorWhite  = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}
	ColorGray   = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}
	ColorYellow = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"}
	ColorRed    = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
)

var (
	StyleNormal = lipgloss.NewStyle().Foreground(ColorWhite)

	// StyleClean marks scans without warnings and valid coverage
	StyleClean = lipgloss.NewStyle().Foreground(ColorGreen)

	// StyleWarn marks a single warning and warned coverage
	StyleWarn = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleMulti marks scans with several warnings
	StyleMulti = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)

	StyleCode = lipgloss.NewStyle().Foreground(ColorCyan)

	StyleHelp = lipgloss.NewStyle().Foreground(ColorGray)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Foreground(ColorGray).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)
)

// ToneStyle picks the style matching a scan's tone.
func ToneStyle(t classify.Tone) lipgloss.Style {
	switch t {
	case classify.ToneSuccess:
		return StyleClean
	case classify.ToneMulti:
		return StyleMulti
	default:
		return StyleWarn
	}
}
