package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingSink struct {
	mu     sync.Mutex
	events []string
}

func (c *countingSink) add(e string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *countingSink) TrackCacheHit(p string)   { c.add("hit:" + p) }
func (c *countingSink) TrackCacheMiss(p string)  { c.add("miss:" + p) }
func (c *countingSink) TrackAPISuccess(p string) { c.add("ok:" + p) }
func (c *countingSink) TrackAPIFailure(p string) { c.add("fail:" + p) }

func TestTracker(t *testing.T) {
	tr := New()
	provider := "openaip.net"

	assert.Empty(t, tr.Snapshot())

	tr.TrackCacheHit(provider)
	tr.TrackCacheMiss(provider)
	tr.TrackAPISuccess(provider)
	tr.TrackAPIFailure(provider)

	stats := tr.Snapshot()
	if assert.Contains(t, stats, provider) {
		assert.Equal(t, ProviderStats{CacheHits: 1, CacheMisses: 1, APISuccess: 1, APIFailures: 1}, stats[provider])
	}
}

func TestHitRate(t *testing.T) {
	tests := []struct {
		name  string
		stats ProviderStats
		want  int64
	}{
		{"no lookups", ProviderStats{}, 0},
		{"all hits", ProviderStats{CacheHits: 4}, 100},
		{"three quarters", ProviderStats{CacheHits: 3, CacheMisses: 1}, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.HitRate())
		})
	}
}

func TestForwarding(t *testing.T) {
	sink := &countingSink{}
	tr := New(sink)

	tr.TrackCacheMiss("openaip.net")
	tr.TrackAPISuccess("openaip.net")

	assert.Equal(t, []string{"miss:openaip.net", "ok:openaip.net"}, sink.events)
}

func TestConcurrentTracking(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.TrackCacheHit("a")
			tr.TrackAPISuccess("b")
		}()
	}
	wg.Wait()

	stats := tr.Snapshot()
	assert.Equal(t, int64(50), stats["a"].CacheHits)
	assert.Equal(t, int64(50), stats["b"].APISuccess)
}
