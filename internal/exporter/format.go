package exporter

import (
	"fmt"
	"strconv"
)

// formatScore formats a 0-100 or 0-5 score with four decimal places so
// re-exports compare byte-for-byte.
func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatBucket formats a display bucket index
func formatBucket(b int) string {
	return fmt.Sprintf("%d", b)
}
