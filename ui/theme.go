package ui

import (
	"errors"
	"io/fs"

	"github.com/charmbracelet/lipgloss"

	"github.com/ckgxrg/dwsh/logger"
)

// Theme holds the overlay styles.
type Theme struct {
	Bar      lipgloss.Style
	Label    lipgloss.Style
	Button   lipgloss.Style
	Armed    lipgloss.Style
	Disabled lipgloss.Style
	Hint     lipgloss.Style
}

// palette is the five-colour subset of a scheme the overlay draws with.
type palette struct {
	background lipgloss.TerminalColor
	text       lipgloss.TerminalColor
	primary    lipgloss.TerminalColor
	success    lipgloss.TerminalColor
	danger     lipgloss.TerminalColor
}

var defaultPalette = palette{
	background: lipgloss.NoColor{},
	text:       lipgloss.Color("#7D7D7D"),
	primary:    lipgloss.Color("#00FFFF"),
	success:    lipgloss.Color("#00FFFF"),
	danger:     lipgloss.Color("#FF0055"),
}

func defaultTheme() Theme {
	return newTheme(defaultPalette)
}

func newTheme(p palette) Theme {
	button := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.text).
		Foreground(p.text).
		Width(buttonInner).
		Align(lipgloss.Center)

	return Theme{
		Bar: lipgloss.NewStyle().
			Background(p.background).
			Foreground(p.text),
		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Button: button,
		Armed: button.
			BorderForeground(p.success).
			Foreground(p.primary).
			Bold(true),
		Disabled: button.
			BorderForeground(p.danger),
		Hint: lipgloss.NewStyle().
			Foreground(p.text),
	}
}

// LoadTheme builds the overlay theme from the base16 scheme at path. Any
// failure falls back to the built-in colours.
func LoadTheme(path string) Theme {
	if path == "" {
		return defaultTheme()
	}
	scheme, err := LoadColourScheme(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("[ui] no colour scheme at %s, using defaults", path)
		return defaultTheme()
	case err != nil:
		logger.Warn("[ui] %v, using default colours", err)
		return defaultTheme()
	}
	logger.Debug("[ui] colour scheme loaded from %s", path)
	return newTheme(scheme.palette())
}
