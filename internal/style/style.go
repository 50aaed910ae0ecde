// Package style provides the console styling for run progress and record
// diagnostics.
package style

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#7FD962"}).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB454"}).
		Bold(true)

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#F26D78"}).
		Bold(true)

	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#707070", Dark: "#8A9199"})

	Bold = lipgloss.NewStyle().Bold(true)
)

// Warn writes a "WARN:" prefixed line to w.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", Warning.Render("WARN:"), fmt.Sprintf(format, args...))
}

// Done writes a success line to w.
func Done(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", Success.Render("✓"), fmt.Sprintf(format, args...))
}

// Step writes a dimmed progress line to w.
func Step(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Dim.Render(fmt.Sprintf(format, args...)))
}
