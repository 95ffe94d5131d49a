// Package tracker counts upstream requests per provider for the stats
// endpoint and forwards every event to further sinks such as the metrics
// collector.
package tracker

import (
	"sync"
	"sync/atomic"
)

// Sink receives upstream request events.
type Sink interface {
	TrackCacheHit(provider string)
	TrackCacheMiss(provider string)
	TrackAPISuccess(provider string)
	TrackAPIFailure(provider string)
}

// Tracker tracks usage statistics per provider.
type Tracker struct {
	mu      sync.RWMutex
	stats   map[string]*ProviderStats
	forward []Sink
}

// ProviderStats holds metrics for a specific provider.
// Fields are accessed atomically.
type ProviderStats struct {
	CacheHits   int64
	CacheMisses int64
	APISuccess  int64
	APIFailures int64
}

// HitRate is the cache hit percentage, 0 without lookups.
func (s ProviderStats) HitRate() int64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return s.CacheHits * 100 / total
}

// New creates a new Tracker that also reports to forward.
func New(forward ...Sink) *Tracker {
	return &Tracker{
		stats:   make(map[string]*ProviderStats),
		forward: forward,
	}
}

// getStats returns the stats object for a provider, creating it if needed.
func (t *Tracker) getStats(provider string) *ProviderStats {
	t.mu.RLock()
	s, ok := t.stats[provider]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok = t.stats[provider]; ok {
		return s
	}
	s = &ProviderStats{}
	t.stats[provider] = s
	return s
}

// TrackCacheHit increments the cache hit counter.
func (t *Tracker) TrackCacheHit(provider string) {
	atomic.AddInt64(&t.getStats(provider).CacheHits, 1)
	for _, f := range t.forward {
		f.TrackCacheHit(provider)
	}
}

func (t *Tracker) TrackCacheMiss(provider string) {
	atomic.AddInt64(&t.getStats(provider).CacheMisses, 1)
	for _, f := range t.forward {
		f.TrackCacheMiss(provider)
	}
}

func (t *Tracker) TrackAPISuccess(provider string) {
	atomic.AddInt64(&t.getStats(provider).APISuccess, 1)
	for _, f := range t.forward {
		f.TrackAPISuccess(provider)
	}
}

func (t *Tracker) TrackAPIFailure(provider string) {
	atomic.AddInt64(&t.getStats(provider).APIFailures, 1)
	for _, f := range t.forward {
		f.TrackAPIFailure(provider)
	}
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]ProviderStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]ProviderStats, len(t.stats))
	for k, v := range t.stats {
		result[k] = ProviderStats{
			CacheHits:   atomic.LoadInt64(&v.CacheHits),
			CacheMisses: atomic.LoadInt64(&v.CacheMisses),
			APISuccess:  atomic.LoadInt64(&v.APISuccess),
			APIFailures: atomic.LoadInt64(&v.APIFailures),
		}
	}
	return result
}
