// Package render fetches fully rendered release page HTML.
package render

import (
	"context"
	"strings"

	"dcytdl/internal/config"
)

// Renderer returns the HTML of a page after it has been rendered.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// New returns the renderer selected in cfg.
func New(cfg *config.Config) Renderer {
	switch strings.ToLower(cfg.Renderer) {
	case "http":
		return NewHTTP(nil, cfg.UserAgent)
	default:
		return NewBrowser(cfg.Browser, cfg.UserAgent)
	}
}
