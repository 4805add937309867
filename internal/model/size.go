package model

import "fmt"

const (
	bytesPerKiB = 1024
	bytesPerMiB = 1024 * 1024
)

// HumanizeBytes renders a byte count as "N B", "N.N KB" or "N.N MB".
// Anything at or above one mebibyte stays in MB.
func HumanizeBytes(n int64) string {
	switch {
	case n < bytesPerKiB:
		return fmt.Sprintf("%d B", n)
	case n < bytesPerMiB:
		return fmt.Sprintf("%.1f KB", float64(n)/bytesPerKiB)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/bytesPerMiB)
	}
}
