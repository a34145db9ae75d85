package render

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"dcytdl/internal/config"
	"dcytdl/internal/httputil"
)

// Browser renders pages in a headless Chrome driven by rod. Discogs builds
// the release page with JavaScript, so the plain HTTP response may not
// contain the final dsdata.
type Browser struct {
	opts      config.Browser
	userAgent string
}

// NewBrowser creates a browser renderer.
func NewBrowser(opts config.Browser, userAgent string) *Browser {
	return &Browser{opts: opts, userAgent: userAgent}
}

// Render launches a fresh browser, loads url and returns the page HTML.
func (b *Browser) Render(ctx context.Context, url string) (string, error) {
	if err := httputil.ValidateURL(url); err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	l := b.launcher()
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connecting to browser: %w", err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	if b.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}); err != nil {
			return "", fmt.Errorf("setting user agent: %w", err)
		}
	}

	page = page.Timeout(b.timeout())

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("waiting for page load: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading page HTML: %w", err)
	}
	return html, nil
}

func (b *Browser) launcher() *launcher.Launcher {
	l := launcher.New().
		Headless(b.opts.Headless).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if b.opts.Bin != "" {
		l = l.Bin(b.opts.Bin)
	}
	return l
}

func (b *Browser) timeout() time.Duration {
	if b.opts.Timeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(b.opts.Timeout) * time.Second
}
