// Package fetch downloads the tierlist from its remote endpoint.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/arcanaland/umadeck/internal/logging"
)

// DefaultURL is the published precomputed tierlist.
const DefaultURL = "https://uma.moe/assets/data/precomputed-tierlist.json"

// ErrInvalidJSON is returned when the endpoint answers with something that
// is not JSON.
var ErrInvalidJSON = errors.New("response is not valid JSON")

// Options configures a Fetcher. Zero values fall back to the defaults.
type Options struct {
	URL     string
	Timeout time.Duration
	// Retries is the number of attempts after the first one.
	Retries    int
	RetryDelay time.Duration
	Client     *http.Client
}

// Fetcher performs GET requests through a circuit breaker.
type Fetcher struct {
	url        string
	retries    int
	retryDelay time.Duration
	client     *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
}

// New creates a Fetcher. The breaker opens after retries+1 consecutive
// failures so a single command never hammers a dead endpoint twice.
func New(opts Options) *Fetcher {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	threshold := uint32(opts.Retries + 1)
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tierlist-fetch",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &Fetcher{
		url:        opts.URL,
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
		client:     client,
		cb:         cb,
	}
}

// URL returns the endpoint the fetcher downloads from.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch downloads the endpoint body, retrying failed attempts until the
// retry budget is spent, the breaker opens or ctx is done.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			logging.Warn().Err(lastErr).Int("attempt", attempt+1).Str("url", f.url).Msg("retrying tierlist download")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.retryDelay):
			}
		}

		body, err := f.cb.Execute(func() ([]byte, error) {
			return f.get(ctx)
		})
		if err == nil {
			return body, nil
		}
		lastErr = err
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("failed to download %s: %w", f.url, lastErr)
}

func (f *Fetcher) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}
	return body, nil
}
