package request

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"rttrainer/pkg/cache"
	"rttrainer/pkg/version"
)

var defaultUserAgent = fmt.Sprintf("rttrainer/%s (RT phraseology trainer)", version.Version)

// Tracker counts request outcomes per provider.
type Tracker interface {
	TrackCacheHit(provider string)
	TrackCacheMiss(provider string)
	TrackAPISuccess(provider string)
	TrackAPIFailure(provider string)
}

type noopTracker struct{}

func (noopTracker) TrackCacheHit(string)   {}
func (noopTracker) TrackCacheMiss(string)  {}
func (noopTracker) TrackAPISuccess(string) {}
func (noopTracker) TrackAPIFailure(string) {}

// Options tune retries and pacing.
type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Gap is the pause between two requests to the same provider.
	Gap time.Duration
}

// DefaultOptions returns the settings used when the config has none.
func DefaultOptions() Options {
	return Options{
		Timeout:     60 * time.Second,
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		Gap:         100 * time.Millisecond,
	}
}

// Client handles HTTP requests with queuing, caching, and tracking.
type Client struct {
	httpClient *http.Client
	cache      cache.Cacher
	tracker    Tracker
	gate       *gate
	opts       Options

	// one queue per provider host
	queues map[string]chan job
	mu     sync.Mutex
}

type job struct {
	req      *http.Request
	headers  map[string]string
	cacheKey string
	respChan chan jobResult
}

type jobResult struct {
	body []byte
	err  error
}

// New creates a new Client. c and t may be nil.
func New(c cache.Cacher, t Tracker, opts Options) *Client {
	if t == nil {
		t = noopTracker{}
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		cache:      c,
		tracker:    t,
		gate:       newGate(opts.BaseDelay, opts.MaxDelay),
		opts:       opts,
		queues:     make(map[string]chan job),
	}
}

// Get performs a GET request with queuing and caching if key is provided.
func (c *Client) Get(ctx context.Context, u, cacheKey string) ([]byte, error) {
	return c.GetWithHeaders(ctx, u, nil, cacheKey)
}

// GetWithHeaders performs a GET request with custom headers and optional caching.
func (c *Client) GetWithHeaders(ctx context.Context, u string, headers map[string]string, cacheKey string) ([]byte, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	provider := normalizeProvider(parsedURL.Host)

	if cacheKey != "" && c.cache != nil {
		if val, hit := c.cache.GetCache(ctx, cacheKey); hit {
			c.tracker.TrackCacheHit(provider)
			slog.Debug("Cache Hit", "provider", provider, "key", cacheKey)
			return val, nil
		}
		c.tracker.TrackCacheMiss(provider)
		slog.Debug("Cache Miss", "provider", provider, "key", cacheKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	respChan := make(chan jobResult, 1)
	c.dispatch(provider, job{req: req, headers: headers, cacheKey: cacheKey, respChan: respChan})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-respChan:
		return res.body, res.err
	}
}

// normalizeProvider groups the subdomains of one data provider.
func normalizeProvider(host string) string {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	for _, p := range []string{"www.", "api.", "cdn."} {
		host = strings.TrimPrefix(host, p)
	}
	return host
}

// dispatch sends the job to the provider's queue, creating the queue and
// its worker if needed.
func (c *Client) dispatch(provider string, j job) {
	c.mu.Lock()
	q, ok := c.queues[provider]
	if !ok {
		q = make(chan job, 100)
		c.queues[provider] = q
		go c.worker(provider, q)
	}
	c.mu.Unlock()

	// blocks when the queue is full, throttling the caller
	select {
	case q <- j:
	case <-j.req.Context().Done():
		j.respChan <- jobResult{err: j.req.Context().Err()}
	}
}

// worker processes requests for one provider sequentially.
func (c *Client) worker(provider string, q <-chan job) {
	for j := range q {
		if j.req.Context().Err() != nil {
			slog.Warn("Job dropped from queue (context expired)", "provider", provider, "error", j.req.Context().Err())
			j.respChan <- jobResult{err: j.req.Context().Err()}
			continue
		}

		uaSet := false
		for k, v := range j.headers {
			j.req.Header.Set(k, v)
			if http.CanonicalHeaderKey(k) == "User-Agent" {
				uaSet = true
			}
		}
		if !uaSet {
			j.req.Header.Set("User-Agent", defaultUserAgent)
		}

		if err := c.gate.Wait(j.req.Context(), provider); err != nil {
			j.respChan <- jobResult{err: err}
			continue
		}
		body, hint, err := c.execute(j.req)

		if err == nil {
			c.gate.Succeed(provider)
			c.tracker.TrackAPISuccess(provider)
			if j.cacheKey != "" && c.cache != nil {
				if err := c.cache.SetCache(context.Background(), j.cacheKey, body); err != nil {
					slog.Error("Failed to cache response", "url", j.req.URL, "error", err)
				}
			}
		} else {
			c.gate.Fail(provider, hint)
			c.tracker.TrackAPIFailure(provider)
		}

		j.respChan <- jobResult{body: body, err: err}

		if c.opts.Gap > 0 {
			time.Sleep(c.opts.Gap)
		}
	}
}

// execute attempts the request, retrying transport errors, 429 and 5xx.
// It returns the last Retry-After the server asked for.
func (c *Client) execute(req *http.Request) ([]byte, time.Duration, error) {
	var hint time.Duration
	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		if req.Context().Err() != nil {
			return nil, 0, req.Context().Err()
		}
		last := attempt == c.opts.MaxAttempts-1

		slog.Debug("Network Request", "host", req.URL.Host, "path", req.URL.Path, "attempt", attempt+1)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, 0, req.Context().Err()
			}
			slog.Warn("Request failed, retrying", "url", req.URL.Redacted(), "attempt", attempt+1, "error", err)
			if !last {
				if err := c.sleep(req.Context(), attempt, 0); err != nil {
					return nil, 0, err
				}
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			hint = retryAfter(resp.Header, time.Now())
			slog.Warn("API Backoff", "status", resp.StatusCode, "url", req.URL.Redacted(), "attempt", attempt+1, "retry_after", hint)
			if !last {
				if err := c.sleep(req.Context(), attempt, hint); err != nil {
					return nil, 0, err
				}
			}
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, 0, &StatusError{Code: resp.StatusCode, URL: req.URL.Redacted()}
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, 0, fmt.Errorf("read error: %w", err)
		}
		return body, 0, nil
	}

	return nil, hint, fmt.Errorf("%w after %d attempts", ErrMaxRetries, c.opts.MaxAttempts)
}

// sleep waits before the next attempt; a server hint replaces the
// exponential delay but is still capped.
func (c *Client) sleep(ctx context.Context, attempt int, hint time.Duration) error {
	d := jitter(delayFor(c.opts.BaseDelay, c.opts.MaxDelay, attempt))
	if hint > 0 {
		d = min(hint, max(c.opts.MaxDelay, c.opts.BaseDelay))
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
