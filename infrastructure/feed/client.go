// Package feed fetches article candidates from the GDELT document API.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/abhishekgitt/geo-economy-analyzer-ai/domain/article"
	"github.com/abhishekgitt/geo-economy-analyzer-ai/internal/config"
)

// Client queries the GDELT document API. Requests are paced by a shared rate
// limiter so chunked keyword sweeps stay polite.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRecords int
	language   string
	userAgent  string
	maxRetries int
	retryDelay time.Duration
	retryCap   time.Duration
	limiter    *rate.Limiter
	log        *slog.Logger
}

// NewClient creates a feed client from cfg.
func NewClient(cfg config.FeedConfig) *Client {
	pause := cfg.Pause()
	if pause <= 0 {
		pause = config.DefaultFeedPause
	}

	return &Client{
		baseURL:    cfg.BaseURL(),
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		maxRecords: cfg.MaxRecords(),
		language:   cfg.Language(),
		userAgent:  cfg.UserAgent(),
		maxRetries: cfg.MaxRetries(),
		retryDelay: cfg.RetryDelay(),
		retryCap:   cfg.RetryCap(),
		limiter:    rate.NewLimiter(rate.Every(pause), 1),
		log:        slog.Default().With("component", "feed"),
	}
}

// FetchArticles runs one query against the feed and returns the normalized
// records. Transient failures are retried with exponential backoff; client
// errors and malformed payloads fail immediately.
func (c *Client) FetchArticles(ctx context.Context, query string) ([]article.Raw, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		records, err := c.fetchOnce(ctx, query)
		if err == nil {
			return records, nil
		}
		if !isRetryable(err) {
			return nil, err
		}

		lastErr = err
		if attempt == c.maxRetries {
			break
		}

		delay := c.backoff(attempt)
		c.log.WarnContext(ctx, "feed request failed, retrying",
			"attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("feed query failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, query string) ([]article.Raw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "artlist")
	params.Set("format", "json")
	params.Set("maxrecords", fmt.Sprintf("%d", c.maxRecords))
	if c.language != "" && c.language != "all" {
		params.Set("sourcelang", c.language)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &statusError{code: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transportError{err: err}
	}
	return decodeArticles(body)
}

// decodeArticles parses a feed payload. The API has shipped the article list
// under both "articles" and "artlist" keys over time.
func decodeArticles(body []byte) ([]article.Raw, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode feed payload: %w", err)
	}

	var list []map[string]any
	for _, key := range []string{"articles", "artlist"} {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode feed %q list: %w", key, err)
		}
		break
	}

	records := make([]article.Raw, 0, len(list))
	for _, fields := range list {
		records = append(records, article.Normalize(fields))
	}
	return records, nil
}

// backoff doubles the base delay per attempt, capped.
func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.retryCap {
			return c.retryCap
		}
	}
	if delay > c.retryCap {
		return c.retryCap
	}
	return delay
}

type transportError struct{ err error }

func (e *transportError) Error() string { return fmt.Sprintf("feed request: %v", e.err) }
func (e *transportError) Unwrap() error { return e.err }

type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("feed returned status %d", e.code) }

// isRetryable reports whether a fetch failure is worth another attempt:
// timeouts, connection failures and server-side errors. Client errors and
// malformed payloads are not.
func isRetryable(err error) bool {
	var sErr *statusError
	if errors.As(err, &sErr) {
		return true
	}
	var tErr *transportError
	if !errors.As(err, &tErr) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, context.DeadlineExceeded)
}
