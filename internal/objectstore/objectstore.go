// Package objectstore fetches the raw XML payload for a document or asset
// from the object store that holds it, with retry/backoff and the asset
// scan that feeds carry-forward.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/scieloorg/kernel-sub000/internal/corelog"
	"github.com/scieloorg/kernel-sub000/internal/metrics"
)

// ErrRetryable wraps transport failures and 5xx responses: the client
// should back off and try again.
var ErrRetryable = errors.New("objectstore: retryable error")

// ErrNonRetryable wraps malformed requests and 4xx responses: retrying
// would not help.
var ErrNonRetryable = errors.New("objectstore: non-retryable error")

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(name string, def float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// MaxRetries is KERNEL_LIB_MAX_RETRIES, default 4.
func MaxRetries() int { return envInt("KERNEL_LIB_MAX_RETRIES", 4) }

// BackoffFactor is KERNEL_LIB_BACKOFF_FACTOR, default 1.2.
func BackoffFactor() float64 { return envFloat("KERNEL_LIB_BACKOFF_FACTOR", 1.2) }

// Client fetches XML payloads over HTTP with retry/backoff and asset
// enumeration, grounded on the retry/jitter fields of the teacher's storage
// options and the original fetch_data/retry_gracefully decorator.
type Client struct {
	HTTPClient    *http.Client
	MaxRetries    int
	BackoffFactor float64
	sleep         func(time.Duration)
}

// NewClient returns a Client configured from the environment.
func NewClient() *Client {
	return &Client{
		HTTPClient:    &http.Client{},
		MaxRetries:    MaxRetries(),
		BackoffFactor: BackoffFactor(),
		sleep:         time.Sleep,
	}
}

// Fetch retrieves the bytes at url, retrying retryable failures up to
// MaxRetries times with BackoffFactor^attempt second delays between
// attempts.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	start := time.Now()
	defer func() { metrics.ObjectstoreResponseTime.Observe(time.Since(start).Seconds()) }()

	var lastErr error
	for attempt := 1; ; attempt++ {
		body, err := c.doFetch(ctx, url, timeout)
		if err == nil {
			return body, nil
		}
		lastErr = err
		metrics.ObjectstoreRequestFailures.Inc()
		if !errors.Is(err, ErrRetryable) || attempt > c.MaxRetries {
			return nil, lastErr
		}
		wait := time.Duration(math.Pow(c.BackoffFactor, float64(attempt)) * float64(time.Second))
		corelog.Info("retrying object-store fetch",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		c.sleep(wait)
	}
}

func (c *Client) doFetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNonRetryable, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRetryable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: status %d", ErrNonRetryable, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrRetryable, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// AssetRef is one asset reference discovered in a document's XML: an
// xlink:href value carried by one of the five asset-bearing elements. The
// href text itself is the asset id used throughout the manifest - there is
// no separate node identity to track.
type AssetRef struct {
	Href    string
	Element string
}

// FetchAssets fetches url and enumerates its asset references in one call,
// the shape domain.AssetsFetcher expects.
func (c *Client) FetchAssets(ctx context.Context, url string, timeout time.Duration) ([]byte, []AssetRef, error) {
	body, err := c.Fetch(ctx, url, timeout)
	if err != nil {
		return nil, nil, err
	}
	return body, EnumerateAssets(body), nil
}
