package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"rttrainer/internal/api"
	"rttrainer/pkg/aerodata"
	"rttrainer/pkg/cache"
	"rttrainer/pkg/config"
	"rttrainer/pkg/db"
	"rttrainer/pkg/db/maintenance"
	"rttrainer/pkg/metrics"
	"rttrainer/pkg/probe"
	"rttrainer/pkg/radiocall"
	"rttrainer/pkg/request"
	"rttrainer/pkg/route"
	"rttrainer/pkg/scenario"
	"rttrainer/pkg/session"
	"rttrainer/pkg/store"
	"rttrainer/pkg/tracker"
)

// blobCacheEntries is the in-memory front of the sqlite response cache.
const blobCacheEntries = 128

// app holds the services every sub-command shares.
type app struct {
	cfg       *config.Config
	db        *db.DB
	store     *store.SQLiteStore
	prov      *config.UnifiedProvider
	metrics   *metrics.Collector
	tracker   *tracker.Tracker
	data      *aerodata.Dataset
	scenarios *scenario.Cache
	parser    *radiocall.Parser
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	dbConn, err := db.Init(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a := &app{cfg: cfg, db: dbConn, store: store.NewSQLiteStore(dbConn)}

	if err := maintenance.Run(ctx, a.store, dbConn, maintenance.Options{
		CacheTTL:         cfg.DB.CacheTTL.Std(),
		AttemptRetention: cfg.DB.AttemptRetention.Std(),
		MinInterval:      24 * time.Hour,
	}); err != nil {
		slog.Error("Maintenance tasks failed", "error", err)
	}

	a.prov = config.NewProvider(cfg, a.store)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if a.metrics, err = metrics.NewCollector(reg); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	a.tracker = tracker.New(a.metrics)

	blobs, err := cache.NewTiered(a.store, blobCacheEntries)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create blob cache: %w", err)
	}
	if a.data, err = loadAerodata(ctx, cfg, blobs, a.tracker); err != nil {
		a.Close()
		return nil, err
	}

	opts, err := scenarioOptions(&cfg.Scenario)
	if err != nil {
		a.Close()
		return nil, err
	}
	if a.scenarios, err = scenario.NewCache(scenario.NewGenerator(opts, a.metrics), cfg.Scenario.CacheSize); err != nil {
		a.Close()
		return nil, err
	}
	if a.parser, err = radiocall.NewParser(radiocall.WithRecorder(a.metrics)); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize call parser: %w", err)
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

func loadAerodata(ctx context.Context, cfg *config.Config, blobs cache.Cacher, tr request.Tracker) (*aerodata.Dataset, error) {
	client := request.New(blobs, tr, request.Options{
		Timeout:     cfg.Request.Timeout.Std(),
		MaxAttempts: cfg.Request.Retries,
		BaseDelay:   cfg.Request.Backoff.BaseDelay.Std(),
		MaxDelay:    cfg.Request.Backoff.MaxDelay.Std(),
		Gap:         cfg.Request.Gap.Std(),
	})
	src, err := newSource(&cfg.Aerodata, client)
	if err != nil {
		return nil, err
	}
	loader := aerodata.NewLoader(src, blobs, aerodata.Options{
		MinAirports:   cfg.Aerodata.MinAirports,
		MinAirspaces:  cfg.Aerodata.MinAirspaces,
		CacheTTL:      cfg.Aerodata.CacheTTL.Std(),
		CacheKey:      "aerodata:" + src.Name() + ":" + cfg.Aerodata.Country,
		ExplicitZones: cfg.Aerodata.ExplicitZones,
	})
	ds, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aeronautical data: %w", err)
	}
	return ds, nil
}

func newSource(cfg *config.AerodataConfig, client aerodata.Getter) (aerodata.Source, error) {
	switch cfg.Source {
	case "file":
		return &aerodata.FileSource{AirportsPath: cfg.AirportsFile, AirspacesPath: cfg.AirspacesFile}, nil
	case "openaip":
		if cfg.Key == "" {
			return nil, fmt.Errorf("aerodata.key or OPENAIP_API_KEY is required for the openaip source")
		}
		return &aerodata.APISource{
			Client:   client,
			BaseURL:  cfg.BaseURL,
			APIKey:   cfg.Key,
			Country:  cfg.Country,
			PageSize: cfg.PageSize,
		}, nil
	default:
		return nil, fmt.Errorf("unknown aerodata source %q", cfg.Source)
	}
}

// scenarioOptions converts the config section to generator options.
func scenarioOptions(c *config.ScenarioConfig) (scenario.Options, error) {
	lo, err := config.ParseClock(c.StartTimeEarliest)
	if err != nil {
		return scenario.Options{}, err
	}
	hi, err := config.ParseClock(c.StartTimeLatest)
	if err != nil {
		return scenario.Options{}, err
	}
	return scenario.Options{
		StartTimeMin:         lo,
		StartTimeMax:         hi,
		CruiseAltitudeFt:     c.CruiseAltitudeFt,
		CruiseAirspeedKt:     c.CruiseAirspeedKt,
		ClimbAltitudeFt:      c.ClimbAltitudeFt,
		ClimbAirspeedKt:      c.ClimbAirspeedKt,
		AverageSpeedKmPerMin: c.AverageSpeed,
		FlightTimeMultiplier: c.FlightTimeFactor,
		ZoneExitDistanceKm:   c.ZoneExitDistance.Km(),
		PreIntersectionKm:    c.PreIntersection.Km(),
		ArrivalBufferMin:     c.ArrivalBufferMin,
		MaxFlightLevel:       c.MaxFlightLevel,
		FISName:              c.FISName,
		FISFrequency:         c.FISFrequency,
		ConspicuitySquawk:    c.ConspicuitySquawk,
	}, nil
}

// policy reads the retry policy from the runtime settings on every call.
func (a *app) policy() session.Policy {
	ctx := context.Background()
	return session.Policy{
		RevealThreshold: a.prov.RevealThreshold(ctx),
		DeclineCooldown: a.prov.DeclineCooldown(ctx),
	}
}

func (a *app) newSessionManager() *session.Manager {
	return session.NewManager(a.parser, a.policy(), a.cfg.Session.TTL.Std(),
		session.WithAttemptSink(a.store),
		session.WithGauge(a.metrics),
		session.WithPolicySource(a.policy),
	)
}

func (a *app) scenarioHandler() *api.ScenarioHandler {
	return api.NewScenarioHandler(a.data, a.scenarios, a.store, a.prov, route.DefaultSearchOptions(), a.cfg.Scenario.MaxFlightLevel)
}

// probes are the startup checks of the server.
func (a *app) probes() []probe.Probe {
	return []probe.Probe{
		{
			Name:     "Database",
			Check:    a.db.PingContext,
			Critical: true,
		},
		{
			Name: "Aeronautical data",
			Check: func(context.Context) error {
				return a.data.Check(a.cfg.Aerodata.MinAirports, a.cfg.Aerodata.MinAirspaces)
			},
			Critical: true,
		},
		{
			Name: "Aerodata freshness",
			Check: func(context.Context) error {
				ttl := a.cfg.Aerodata.CacheTTL.Std()
				if age := time.Since(a.data.FetchedAt); ttl > 0 && age > 2*ttl {
					return fmt.Errorf("data is %s old", age.Round(time.Hour))
				}
				return nil
			},
		},
	}
}
