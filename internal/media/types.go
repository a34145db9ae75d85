// Package media defines shared types for the dcytdl application.
package media

import "fmt"

// Video is a single external video linked from a release page.
type Video struct {
	YoutubeID   string  // e.g., "dQw4w9WgXcQ"
	Title       string  // Title as listed on the release page
	Duration    float64 // Length in seconds, 0 when unknown
	Description string
}

// FormatDuration formats seconds as H:MM:SS or M:SS.
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	s := int(seconds)
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
