package api

import (
	"net/http"
	"runtime"
	"sync"
	"time"

	"rttrainer/pkg/aerodata"
	"rttrainer/pkg/scenario"
	"rttrainer/pkg/session"
	"rttrainer/pkg/tracker"
)

// StatsHandler serves GET /api/stats. Every source is optional.
type StatsHandler struct {
	tracker  *tracker.Tracker
	sessions *session.Manager
	cache    *scenario.Cache
	data     *aerodata.Dataset
	started  time.Time

	mu     sync.Mutex
	maxMem uint64
}

func NewStatsHandler(t *tracker.Tracker, sessions *session.Manager, cache *scenario.Cache, data *aerodata.Dataset) *StatsHandler {
	return &StatsHandler{
		tracker:  t,
		sessions: sessions,
		cache:    cache,
		data:     data,
		started:  time.Now(),
	}
}

type ProviderStatsDTO struct {
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	APISuccess  int64 `json:"api_success"`
	APIFailures int64 `json:"api_errors"`
	HitRate     int64 `json:"hit_rate"`
}

type RuntimeStats struct {
	UptimeSec   int64  `json:"uptime_sec"`
	Goroutines  int    `json:"goroutines"`
	MemoryMB    uint64 `json:"memory_mb"`
	MemoryMaxMB uint64 `json:"memory_max_mb"`
}

type TrainerStats struct {
	ActiveSessions  int    `json:"active_sessions"`
	CachedScenarios int    `json:"cached_scenarios"`
	DataVersion     string `json:"data_version,omitempty"`
	Airports        int    `json:"airports"`
	Airspaces       int    `json:"airspaces"`
}

type StatsResponse struct {
	Runtime   RuntimeStats                `json:"runtime"`
	Trainer   TrainerStats                `json:"trainer"`
	Providers map[string]ProviderStatsDTO `json:"providers"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Runtime:   h.runtimeStats(),
		Providers: make(map[string]ProviderStatsDTO),
	}

	if h.sessions != nil {
		resp.Trainer.ActiveSessions = h.sessions.Len()
	}
	if h.cache != nil {
		resp.Trainer.CachedScenarios = h.cache.Len()
	}
	if h.data != nil {
		resp.Trainer.DataVersion = h.data.Version
		resp.Trainer.Airports = len(h.data.Airports)
		resp.Trainer.Airspaces = len(h.data.Airspaces)
	}

	if h.tracker != nil {
		for provider, stats := range h.tracker.Snapshot() {
			resp.Providers[provider] = ProviderStatsDTO{
				CacheHits:   stats.CacheHits,
				CacheMisses: stats.CacheMisses,
				APISuccess:  stats.APISuccess,
				APIFailures: stats.APIFailures,
				HitRate:     stats.HitRate(),
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *StatsHandler) runtimeStats() RuntimeStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	h.mu.Lock()
	if ms.Sys > h.maxMem {
		h.maxMem = ms.Sys
	}
	peak := h.maxMem
	h.mu.Unlock()

	return RuntimeStats{
		UptimeSec:   int64(time.Since(h.started).Seconds()),
		Goroutines:  runtime.NumGoroutine(),
		MemoryMB:    bToMb(ms.Sys),
		MemoryMaxMB: bToMb(peak),
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
