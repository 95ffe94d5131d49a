// Package metrics exposes Prometheus collectors for scenario generation,
// call parsing and the HTTP surface.
package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the trainer's metrics. It satisfies the recorder
// interfaces of the scenario and radiocall packages.
type Collector struct {
	gatherer prometheus.Gatherer

	Scenarios        *prometheus.CounterVec
	ScenarioDuration *prometheus.HistogramVec
	ScenarioPoints   prometheus.Histogram

	Calls         *prometheus.CounterVec
	Mistakes      *prometheus.CounterVec
	ParseDuration *prometheus.HistogramVec

	ActiveSessions prometheus.Gauge
	HTTPRequests   *prometheus.CounterVec
	HTTPDurations  *prometheus.HistogramVec

	Upstream *prometheus.CounterVec
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	scenarios, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rttrainer_scenarios_total",
		Help: "Generated scenarios, labeled by outcome.",
	}, []string{"outcome"}), "rttrainer_scenarios_total")
	if err != nil {
		return nil, err
	}
	scenarioDuration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rttrainer_scenario_duration_seconds",
		Help:    "Scenario generation latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}, []string{"outcome"}), "rttrainer_scenario_duration_seconds")
	if err != nil {
		return nil, err
	}
	scenarioPoints, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rttrainer_scenario_points",
		Help:    "Number of scenario points per generated timeline.",
		Buckets: prometheus.LinearBuckets(10, 10, 8),
	}), "rttrainer_scenario_points")
	if err != nil {
		return nil, err
	}

	calls, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rttrainer_calls_total",
		Help: "Parsed radio calls, labeled by stage and result.",
	}, []string{"stage", "result"}), "rttrainer_calls_total")
	if err != nil {
		return nil, err
	}
	mistakes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rttrainer_mistakes_total",
		Help: "Phraseology mistakes, labeled by stage and severity.",
	}, []string{"stage", "severity"}), "rttrainer_mistakes_total")
	if err != nil {
		return nil, err
	}
	parseDuration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rttrainer_parse_duration_seconds",
		Help:    "Radio call parse latency in seconds.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005},
	}, []string{"stage"}), "rttrainer_parse_duration_seconds")
	if err != nil {
		return nil, err
	}

	sessions, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rttrainer_active_sessions",
		Help: "Practice sessions currently held in memory.",
	}), "rttrainer_active_sessions")
	if err != nil {
		return nil, err
	}
	httpRequests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rttrainer_http_requests_total",
		Help: "Handled HTTP requests, labeled by route and status code.",
	}, []string{"route", "code"}), "rttrainer_http_requests_total")
	if err != nil {
		return nil, err
	}
	httpDurations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rttrainer_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route"}), "rttrainer_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	upstream, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rttrainer_upstream_requests_total",
		Help: "Aeronautical data requests, labeled by provider and result.",
	}, []string{"provider", "result"}), "rttrainer_upstream_requests_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		Scenarios:        scenarios,
		ScenarioDuration: scenarioDuration,
		ScenarioPoints:   scenarioPoints,
		Calls:            calls,
		Mistakes:         mistakes,
		ParseDuration:    parseDuration,
		ActiveSessions:   sessions,
		HTTPRequests:     httpRequests,
		HTTPDurations:    httpDurations,
		Upstream:         upstream,
	}, nil
}

// ObserveScenario records one generation run.
func (c *Collector) ObserveScenario(outcome string, points int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Scenarios.WithLabelValues(outcome).Inc()
	c.ScenarioDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome == "ok" {
		c.ScenarioPoints.Observe(float64(points))
	}
}

// ObserveParse records one parsed call.
func (c *Collector) ObserveParse(stage string, severe, minor int, elapsed time.Duration) {
	if c == nil {
		return
	}
	result := "flawless"
	switch {
	case severe > 0:
		result = "severe"
	case minor > 0:
		result = "minor"
	}
	c.Calls.WithLabelValues(stage, result).Inc()
	if severe > 0 {
		c.Mistakes.WithLabelValues(stage, "severe").Add(float64(severe))
	}
	if minor > 0 {
		c.Mistakes.WithLabelValues(stage, "minor").Add(float64(minor))
	}
	c.ParseDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// SetActiveSessions updates the session gauge.
func (c *Collector) SetActiveSessions(n int) {
	if c == nil {
		return
	}
	c.ActiveSessions.Set(float64(n))
}

func (c *Collector) trackUpstream(provider, result string) {
	if c == nil {
		return
	}
	c.Upstream.WithLabelValues(provider, result).Inc()
}

// TrackCacheHit and the other Track methods count upstream requests.
func (c *Collector) TrackCacheHit(provider string)   { c.trackUpstream(provider, "cache_hit") }
func (c *Collector) TrackCacheMiss(provider string)  { c.trackUpstream(provider, "cache_miss") }
func (c *Collector) TrackAPISuccess(provider string) { c.trackUpstream(provider, "success") }
func (c *Collector) TrackAPIFailure(provider string) { c.trackUpstream(provider, "failure") }

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades through the middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("%T does not support hijacking", r.ResponseWriter)
	}
	r.code = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Middleware counts requests per route. route is the pattern the handler
// is registered under, not the raw path.
func (c *Collector) Middleware(route string, next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		c.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		c.HTTPDurations.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	var gatherer prometheus.Gatherer
	if c != nil {
		gatherer = c.gatherer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
