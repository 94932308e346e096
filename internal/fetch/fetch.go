package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html/charset"
)

const (
	UserAgent = "golfriket-clubs/1.0 (github.com/pfrederiksen/golfriket-clubs)"
	Timeout   = 30 * time.Second

	// Backoff settings used only when retries are enabled
	InitialBackoffInterval = 500 * time.Millisecond
	MaxBackoffInterval     = 5 * time.Second
)

// StatusError is returned for responses outside the 2xx range
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Fetcher fetches pages over HTTP
type Fetcher struct {
	client     *http.Client
	maxRetries uint64
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithMaxRetries enables up to n retries after the first attempt
func WithMaxRetries(n uint64) Option {
	return func(f *Fetcher) {
		f.maxRetries = n
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// New creates a Fetcher with the given per-request timeout. Zero means no
// client timeout; a negative value falls back to Timeout.
func New(timeout time.Duration, opts ...Option) *Fetcher {
	if timeout < 0 {
		timeout = Timeout
	}
	f := &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get fetches url and returns its body decoded to UTF-8
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempts := 0

	op := func() error {
		attempts++
		b, err := f.get(ctx, url)
		if err != nil {
			if ctx.Err() != nil || !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		body = b
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = InitialBackoffInterval
	b.MaxInterval = MaxBackoffInterval

	bo := backoff.WithContext(backoff.WithMaxRetries(b, f.maxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		if attempts > 1 {
			return nil, fmt.Errorf("after %d attempts: %w", attempts, err)
		}
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return decode(raw, resp.Header.Get("Content-Type"))
}

// decode converts raw to UTF-8 based on the Content-Type header and any
// <meta charset> in the document
func decode(raw []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		// Unknown charset: hand the bytes through unchanged
		return raw, nil
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	return out, nil
}

// retryable reports whether err is worth another attempt. Client errors
// other than 408 and 429 are not.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusRequestTimeout || se.StatusCode == http.StatusTooManyRequests
	}
	return true
}
