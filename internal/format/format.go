package format

import (
	"fmt"
	"math"
	"time"
)

// Binary size units.
const (
	KB int64 = 1024
	MB       = 1024 * KB
	GB       = 1024 * MB
	TB       = 1024 * GB
)

// Duration formats a duration for human display.
// Examples: "2h", "30m", "1h30m", "45s", "250ms"
func Duration(d time.Duration) string {
	if d >= time.Hour {
		hours := d / time.Hour
		minutes := (d % time.Hour) / time.Minute
		if minutes > 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	if d >= time.Second || d == 0 {
		return fmt.Sprintf("%ds", d/time.Second)
	}
	return fmt.Sprintf("%dms", d/time.Millisecond)
}

// Size formats a size in bytes for human display.
// Sizes of a megabyte and above carry two decimals.
func Size(bytes int64) string {
	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%d KB", bytes/KB)
	}
	return fmt.Sprintf("%d bytes", bytes)
}

// Ratio formats an upload/download ratio with two decimals.
// Nothing downloaded renders as "∞", or "0.00" when nothing was uploaded either.
func Ratio(uploaded, downloaded int64) string {
	if downloaded <= 0 {
		if uploaded > 0 {
			return "∞"
		}
		return "0.00"
	}
	r := float64(uploaded) / float64(downloaded)
	// Truncate rather than round, so 0.999 never displays as 1.00.
	return fmt.Sprintf("%.2f", math.Floor(r*100)/100)
}
