package request

import (
	"context"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// gate holds back requests to providers that have been failing. Each
// failure doubles the pause up to the cap; each success halves the count.
type gate struct {
	mu    sync.Mutex
	state map[string]*gateState
	base  time.Duration
	cap   time.Duration
	now   func() time.Time
}

type gateState struct {
	failures int
	until    time.Time
}

func newGate(base, cap time.Duration) *gate {
	return &gate{
		state: make(map[string]*gateState),
		base:  base,
		cap:   cap,
		now:   time.Now,
	}
}

// Wait blocks until provider may be called again or ctx is done.
func (g *gate) Wait(ctx context.Context, provider string) error {
	g.mu.Lock()
	var until time.Time
	if s, ok := g.state[provider]; ok {
		until = s.until
	}
	g.mu.Unlock()

	d := until.Sub(g.now())
	if d <= 0 {
		return nil
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

// Fail records a failure. A positive retryAfter from the server wins over
// the computed delay.
func (g *gate) Fail(provider string, retryAfter time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.state[provider]
	if !ok {
		s = &gateState{}
		g.state[provider] = s
	}
	s.failures++
	d := retryAfter
	if d <= 0 {
		d = jitter(delayFor(g.base, g.cap, s.failures-1))
	}
	s.until = g.now().Add(d)
}

// Succeed records a success.
func (g *gate) Succeed(provider string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.state[provider]
	if !ok {
		return
	}
	s.failures /= 2
	if s.failures == 0 {
		delete(g.state, provider)
	}
}

// Failures returns the failure count and the time the gate opens.
func (g *gate) Failures(provider string) (int, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.state[provider]; ok {
		return s.failures, s.until
	}
	return 0, time.Time{}
}

// delayFor is base * 2^attempt, capped.
func delayFor(base, cap time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := base
	for i := 0; i < attempt && d < cap; i++ {
		d *= 2
	}
	if cap > 0 && d > cap {
		d = cap
	}
	return d
}

// jitter adds up to 10%.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int64N(int64(d)/10+1))
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}
