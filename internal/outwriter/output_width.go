package outwriter

import (
	"os"

	"github.com/huangsam/changescope/internal/contract"
	"golang.org/x/term"
)

// getMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and table configuration.
func getMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Status + +/- + Impact + Level with borders/padding
	baseWidth := 45

	// Lang + Cplx + Quality + Issues
	if cfg.Detail {
		baseWidth += 40
	}

	// Table borders, separators and padding
	baseWidth += 15

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
