package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"wikiquiz/internal/domain"
)

// browserUserAgent mimics a real browser; Wikipedia throttles the default
// Go user agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// PageFetcher retrieves raw article HTML over HTTP.
type PageFetcher struct {
	client *http.Client
}

// NewPageFetcher creates a fetcher with the given request timeout.
func NewPageFetcher(timeout time.Duration) *PageFetcher {
	return &PageFetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Fetch retrieves the page at url and returns its body. Transport failures
// and non-2xx statuses both surface as a connection error, which the API
// layer maps to 502.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.NewConnectionError("Failed to fetch Wikipedia page", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", domain.NewConnectionError("Failed to fetch Wikipedia page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domain.NewConnectionError(
			fmt.Sprintf("Failed to fetch Wikipedia page: status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewConnectionError("Failed to read Wikipedia page body", err)
	}
	return string(body), nil
}
