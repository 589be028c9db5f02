package ui

import "github.com/charmbracelet/lipgloss"

const appName = "audiovis"

// accent colors follow the ends of the default bar gradient
var (
	accentLow  = lipgloss.AdaptiveColor{Light: "#0078B4", Dark: "#00AEFF"}
	accentHigh = lipgloss.AdaptiveColor{Light: "#C8321E", Dark: "#FF503C"}
	dim        = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#777777"}
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accentLow)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#222222", Dark: "#FFFFFF"})

	artistStyle = lipgloss.NewStyle().Foreground(dim)

	timeStyle = lipgloss.NewStyle().Foreground(dim)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#444444", Dark: "#CCCCCC"})

	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(accentHigh)

	statsStyle = lipgloss.NewStyle().Faint(true)
)
