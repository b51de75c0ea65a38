package utils

import (
	"fmt"
	"strconv"
	"time"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// TimeAgo renders a timestamp as a rough relative duration.
func TimeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())

	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%dd ago", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%dmo ago", seconds/2592000)
	}
	return fmt.Sprintf("%dy ago", seconds/31536000)
}
