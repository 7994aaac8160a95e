// Package style provides semantic terminal styling using lipgloss.
//
// This package is the only place where lipgloss is imported. All styling is
// semantic (Header, Info, Muted, Error) rather than visual.
//
// When disabled, all helpers return the input string unchanged with no ANSI
// codes.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	enabled bool

	headerStyle lipgloss.Style
	infoStyle   lipgloss.Style
	mutedStyle  lipgloss.Style
	errorStyle  lipgloss.Style
)

// Init initializes the style package. It respects the NO_COLOR environment
// variable; when set to any non-empty value, styling stays disabled
// regardless of the enable parameter.
//
// This function should be called once before any output.
func Init(enable bool) {
	if os.Getenv("NO_COLOR") != "" {
		enabled = false
		return
	}

	enabled = enable
	if enabled {
		initStyles()
	}
}

// initStyles creates the lipgloss styles. The color profile is forced to
// ANSI256 so output does not depend on lipgloss's own TTY detection.
func initStyles() {
	lipgloss.SetColorProfile(termenv.ANSI256)

	headerStyle = lipgloss.NewStyle().Bold(true)
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
}

// Enabled returns whether styling is currently enabled.
func Enabled() bool {
	return enabled
}

// Header styles a section heading.
func Header(text string) string {
	if !enabled {
		return text
	}
	return headerStyle.Render(text)
}

// Info styles tool and flag names.
func Info(text string) string {
	if !enabled {
		return text
	}
	return infoStyle.Render(text)
}

// Muted styles secondary text.
func Muted(text string) string {
	if !enabled {
		return text
	}
	return mutedStyle.Render(text)
}

// Error styles error messages.
func Error(text string) string {
	if !enabled {
		return text
	}
	return errorStyle.Render(text)
}
