package output

import (
	"fmt"
	"os"

	"github.com/devsjc-forks/beets-ytdlp/internal/pipeline"
	"golang.org/x/term"
)

// PrintReport writes one summary line per source, warnings indented below
// their source, and a closing tally.
func PrintReport(report pipeline.Report) {
	if len(report.Results) == 0 {
		return
	}
	PrintHeader("Summary")
	failed := 0
	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			failed++
			PrintError(fmt.Sprintf(" %s %s %s %v", StyleSymbols["fail"], truncate(res.URL), StyleSymbols["arrow"], res.Err))
		case res.Imported:
			PrintSuccess(fmt.Sprintf(" %s %s %s imported %d track(s)", StyleSymbols["pass"], truncate(res.URL), StyleSymbols["arrow"], len(res.Tracks)))
		default:
			PrintSuccess(fmt.Sprintf(" %s %s %s %d track(s), import skipped", StyleSymbols["pass"], truncate(res.URL), StyleSymbols["arrow"], len(res.Tracks)))
		}
		for _, warning := range res.Warnings {
			PrintWarning(fmt.Sprintf("   %s %s", StyleSymbols["warning"], warning))
		}
	}
	if failed > 0 {
		PrintError(fmt.Sprintf("%d of %d source(s) failed", failed, len(report.Results)))
	} else {
		PrintDetail(fmt.Sprintf("%d source(s) processed", len(report.Results)))
	}
}

// truncate shortens a URL to the terminal width so summary lines stay on
// one row. Slicing happens on runes so a multibyte URL is never cut
// mid-character.
func truncate(text string) string {
	maxWidth := terminalWidth() - 40
	if maxWidth < 20 {
		maxWidth = 20
	}
	runes := []rune(text)
	if len(runes) <= maxWidth {
		return text
	}
	return string(runes[:maxWidth-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
