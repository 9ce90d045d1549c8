package video

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Fetcher retrieves one raw results page for a query.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]byte, error)
}

// FetchError reports a non-2xx response from the platform.
type FetchError struct {
	StatusCode int
	Query      string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("video platform returned HTTP %d for %q", e.StatusCode, e.Query)
}

const maxPageBytes = 8 << 20

// PlatformClient fetches search result pages over HTTP.
type PlatformClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewPlatformClient creates a client from cfg.
func NewPlatformClient(cfg Config) *PlatformClient {
	return &PlatformClient{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *PlatformClient) Fetch(ctx context.Context, query string) ([]byte, error) {
	u := c.baseURL + "?search_query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Query: query}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	return body, nil
}
