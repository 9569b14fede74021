// Package scrape provides the best-effort HTML extraction layer shared by
// the scraper-backed collectors: a retrying GET fetcher and pure extractor
// functions that never return an error for malformed content.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
)

// Fetcher performs retrying GETs and parses responses into goquery
// documents. GET-only; any write verb would be a bug in a scraper.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	retry      *RetryPolicy
	logger     arbor.ILogger
}

// NewFetcher creates a Fetcher with the given timeout and user agent.
func NewFetcher(timeout time.Duration, userAgent string, logger arbor.ILogger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		retry:      NewRetryPolicy(),
		logger:     logger,
	}
}

// Get fetches a URL and parses the body as HTML. Retries transient
// failures per the retry policy.
func (f *Fetcher) Get(ctx context.Context, url string) (*goquery.Document, error) {
	var doc *goquery.Document

	statusCode, err := f.retry.ExecuteWithRetry(ctx, f.logger, func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, err
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.httpClient.Do(req)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
		}

		parsed, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse HTML: %w", err)
		}
		doc = parsed
		return resp.StatusCode, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch failed (status %d): %w", statusCode, err)
	}

	return doc, nil
}
