package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ccff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffaa00"))

	Failure = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ff4444"))
)

// bodyColors cycles for systems with more bodies than entries.
var bodyColors = []lipgloss.Color{
	"#ffcc00", // star
	"#aaaaaa",
	"#ffaa66",
	"#3399ff",
	"#ff5533",
	"#dd9955",
	"#eedd99",
	"#99ddff",
	"#5577ff",
	"#cc99ff",
}

// BodyColor returns the hex color used for body i in plots and SVG output.
func BodyColor(i int) string {
	if i < 0 {
		i = -i
	}
	return string(bodyColors[i%len(bodyColors)])
}

func BodyStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(BodyColor(i)))
}

// Separator draws a muted rule of the given width.
func Separator(width int) string {
	if width < 7 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
