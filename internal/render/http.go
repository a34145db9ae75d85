package render

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"dcytdl/internal/httputil"
)

// maxPageSize bounds how much of a response body is read.
const maxPageSize = 20 * 1024 * 1024

// HTTP fetches the server-rendered page without running any JavaScript.
type HTTP struct {
	client    *http.Client
	userAgent string
}

// NewHTTP creates an HTTP renderer. A nil client selects httputil.NewClient.
func NewHTTP(client *http.Client, userAgent string) *HTTP {
	if client == nil {
		client = httputil.NewClient()
	}
	return &HTTP{client: client, userAgent: userAgent}
}

// Render performs a GET request and returns the response body.
func (h *HTTP) Render(ctx context.Context, url string) (string, error) {
	req, err := httputil.NewRequest(url, h.userAgent)
	if err != nil {
		return "", err
	}

	resp, err := h.client.Do(req.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), nil
}
