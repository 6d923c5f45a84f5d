// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/diffeffort/internal/contract"
	"golang.org/x/term"
)

const (
	defaultTermWidth = 80 // Conservative default for narrow terminals and CI
	minPathWidth     = 15
	maxPathWidth     = 70
)

// GetMaxTablePathWidth calculates the maximum width for repository paths in table output
// based on terminal width and the fixed columns that share the row.
func GetMaxTablePathWidth(cfg *contract.Config, fixedColumns int) int {
	termWidth := cfg.Width // absolute override from flag/env
	if termWidth <= 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = defaultTermWidth
		} else {
			termWidth = detected
		}
	}

	// Reserve space for table borders, separators and padding
	available := termWidth - fixedColumns - 20
	if available < minPathWidth {
		return minPathWidth
	}
	if available > maxPathWidth {
		return maxPathWidth
	}
	return available
}
