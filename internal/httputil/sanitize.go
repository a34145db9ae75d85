package httputil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// validVideoIDPattern matches YouTube video IDs (URL-safe base64 alphabet).
var validVideoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateURL checks that a URL is well-formed and uses HTTPS.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// ValidateVideoID checks that a video ID taken from page data contains only
// characters that are safe to append to a URL and pass to yt-dlp.
func ValidateVideoID(id string) error {
	if id == "" {
		return fmt.Errorf("video ID cannot be empty")
	}
	if len(id) > 64 {
		return fmt.Errorf("video ID too long: %d characters", len(id))
	}
	if !validVideoIDPattern.MatchString(id) {
		return fmt.Errorf("video ID contains invalid characters: %q", id)
	}
	if strings.HasPrefix(id, "-") {
		return fmt.Errorf("video ID cannot start with '-': %q", id)
	}
	return nil
}

// VideoURL joins a base URL template (e.g., "https://www.youtube.com/watch?v=")
// and a validated video ID.
func VideoURL(base, id string) (string, error) {
	if err := ValidateVideoID(id); err != nil {
		return "", err
	}
	u := base + id
	if err := ValidateURL(u); err != nil {
		return "", fmt.Errorf("invalid video URL: %w", err)
	}
	return u, nil
}
