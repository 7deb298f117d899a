// Package utils holds small helpers shared across the server that don't
// belong to any one domain package, following the teacher's pkg/utils
// convention.
package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gbridge/server/pkg/cards"
)

// FormatHand renders a hand as a space-separated list of cards ("None" for
// an empty hand), used by GameRegistry's slog debug lines (§10).
func FormatHand(hand []cards.Card) string {
	if len(hand) == 0 {
		return "None"
	}
	result := ""
	for i, c := range hand {
		if i > 0 {
			result += " "
		}
		result += c.String()
	}
	return result
}

// EnsureDataDirExists creates the datadir and its logs subdirectory if they
// don't already exist.
func EnsureDataDirExists(datadir string) error {
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return fmt.Errorf("failed to create datadir %s: %v", datadir, err)
	}

	logsDir := filepath.Join(datadir, "logs")
	if err := os.MkdirAll(logsDir, 0700); err != nil {
		return fmt.Errorf("failed to create logs directory %s: %v", logsDir, err)
	}

	return nil
}
