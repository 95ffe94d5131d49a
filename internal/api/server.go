package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"rttrainer/pkg/metrics"
	"rttrainer/pkg/version"
)

// Handlers bundles everything the server routes to. Nil members disable
// their endpoints.
type Handlers struct {
	Scenarios *ScenarioHandler
	Sessions  *SessionHandler
	Settings  *SettingsHandler
	Aerodata  *AerodataHandler
	Stats     *StatsHandler
	Metrics   *metrics.Collector
	StaticDir string
}

// NewServer creates and configures the HTTP server.
// shutdown is called from POST /api/shutdown.
func NewServer(addr string, h Handlers, shutdown func()) *http.Server {
	mux := http.NewServeMux()
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, h.Metrics.Middleware(pattern, fn))
	}

	// 1. Service
	route("GET /health", handleHealth)
	route("GET /api/version", handleVersion)
	route("GET /api/log/latest", handleLatestLog)
	mux.Handle("GET /metrics", h.Metrics.Handler())

	// 2. Scenario and route
	if s := h.Scenarios; s != nil {
		route("POST /api/scenario", s.HandleGenerate)
		route("POST /api/scenario/map", s.HandleMap)
		route("GET /api/scenarios", s.HandleList)
		route("GET /api/scenarios/{id}", s.HandleGet)
		route("POST /api/route", s.HandleRoute)
	}

	// 3. Practice sessions
	if s := h.Sessions; s != nil {
		route("POST /api/sessions", s.HandleCreate)
		route("GET /api/sessions/{id}", s.HandleGet)
		route("DELETE /api/sessions/{id}", s.HandleEnd)
		route("POST /api/sessions/{id}/radio", s.HandleRadio)
		route("POST /api/sessions/{id}/call", s.HandleCall)
		route("POST /api/sessions/{id}/reveal", s.HandleReveal)
		route("GET /api/sessions/{id}/results", s.HandleResults)
		route("GET /api/sessions/{id}/attempts", s.HandleAttempts)
		route("GET /api/sessions/{id}/ws", s.HandleWS)
	}

	// 4. Settings, reference data, stats
	if h.Settings != nil {
		route("/api/settings", h.Settings.HandleSettings)
	}
	if a := h.Aerodata; a != nil {
		route("GET /api/aerodata", a.HandleSummary)
		route("GET /api/aerodata/airports", a.HandleAirports)
		route("GET /api/aerodata/airspaces", a.HandleAirspaces)
	}
	if h.Stats != nil {
		route("GET /api/stats", h.Stats.ServeHTTP)
	}

	// 5. Shutdown
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// let the response flush first
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	// 6. Static frontend
	if h.StaticDir != "" {
		mux.Handle("/", http.FileServer(&spaFileSystem{root: http.Dir(h.StaticDir)}))
	}

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
