// Package output renders user-facing status lines and the per-source run
// summary on standard error.
package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))             // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))            // red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))           // yellow
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))           // cyan
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))          // grey
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")) // purple
)

var StyleSymbols = map[string]string{
	"pass":    "✓",
	"fail":    "✗",
	"warning": "!",
	"arrow":   "→",
	"bullet":  "•",
}

func PrintSuccess(text string) {
	fmt.Fprintln(os.Stderr, successStyle.Render(text))
}

func PrintError(text string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(text))
}

func PrintWarning(text string) {
	fmt.Fprintln(os.Stderr, warningStyle.Render(text))
}

func PrintInfo(text string) {
	fmt.Fprintln(os.Stderr, infoStyle.Render(text))
}

func PrintDetail(text string) {
	fmt.Fprintln(os.Stderr, detailStyle.Render(text))
}

func PrintHeader(text string) {
	fmt.Fprintln(os.Stderr, headerStyle.Render(text))
}
