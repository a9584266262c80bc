package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan  = lipgloss.Color("36")  // Teal - headings
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

var (
	// styleHeader for table column headings.
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// styleValue for node names.
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// styleNumber for coordinates.
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// styleDim for secondary text.
	styleDim = lipgloss.NewStyle().Foreground(colorDim)
)
