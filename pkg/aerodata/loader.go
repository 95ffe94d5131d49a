package aerodata

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"rttrainer/pkg/aero"
	"rttrainer/pkg/cache"
	"rttrainer/pkg/model"
)

// Options configure a Loader.
type Options struct {
	MinAirports  int
	MinAirspaces int
	CacheTTL     time.Duration
	CacheKey     string
	// ExplicitZones maps airport ids to zone airspace ids where
	// containment picks the wrong one.
	ExplicitZones map[string]string
}

// DefaultOptions returns the plausibility thresholds for a country sized
// data set.
func DefaultOptions() Options {
	return Options{
		MinAirports:  50,
		MinAirspaces: 100,
		CacheTTL:     7 * 24 * time.Hour,
		CacheKey:     "aerodata:dataset",
	}
}

// Loader fetches a Dataset from its Source, going through the cache.
type Loader struct {
	src   Source
	cache cache.Cacher
	opts  Options
	now   func() time.Time
}

// NewLoader creates a loader. c may be nil to always fetch.
func NewLoader(src Source, c cache.Cacher, opts Options) *Loader {
	if opts.CacheKey == "" {
		opts.CacheKey = DefaultOptions().CacheKey
	}
	return &Loader{src: src, cache: c, opts: opts, now: time.Now}
}

// Load returns the cached dataset if it is fresh enough and fetches
// airports and airspaces concurrently otherwise.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	if ds, ok := l.cached(ctx); ok {
		return l.finish(ds)
	}

	var (
		airports  []model.Airport
		airspaces []model.Airspace
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		airports, err = l.src.Airports(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		airspaces, err = l.src.Airspaces(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load from %s: %w", l.src.Name(), err)
	}

	now := l.now()
	ds := &Dataset{
		Version:   versionOf(now, len(airports), len(airspaces)),
		FetchedAt: now,
		Airports:  airports,
		Airspaces: airspaces,
	}
	if err := ds.Check(l.opts.MinAirports, l.opts.MinAirspaces); err != nil {
		return nil, err
	}
	l.store(ctx, ds)
	slog.Info("Aeronautical data loaded", "source", l.src.Name(), "airports", len(airports), "airspaces", len(airspaces))
	return l.finish(ds)
}

func (l *Loader) finish(ds *Dataset) (*Dataset, error) {
	if err := ds.Check(l.opts.MinAirports, l.opts.MinAirspaces); err != nil {
		return nil, err
	}
	zones, err := aero.NewZoneIndex(ds.Airports, ds.Airspaces, l.opts.ExplicitZones)
	if err != nil {
		return nil, err
	}
	ds.Zones = zones
	return ds, nil
}

func (l *Loader) cached(ctx context.Context) (*Dataset, bool) {
	if l.cache == nil {
		return nil, false
	}
	blob, ok := l.cache.GetCache(ctx, l.opts.CacheKey)
	if !ok {
		return nil, false
	}
	ds, err := Decode(blob)
	if err != nil {
		slog.Warn("Discarding cached aeronautical data", "error", err)
		return nil, false
	}
	if l.opts.CacheTTL > 0 && l.now().Sub(ds.FetchedAt) > l.opts.CacheTTL {
		slog.Debug("Cached aeronautical data expired", "fetched", ds.FetchedAt)
		return nil, false
	}
	return ds, true
}

func (l *Loader) store(ctx context.Context, ds *Dataset) {
	if l.cache == nil {
		return
	}
	blob, err := Encode(ds)
	if err != nil {
		slog.Warn("Failed to encode aeronautical data", "error", err)
		return
	}
	if err := l.cache.SetCache(ctx, l.opts.CacheKey, blob); err != nil {
		slog.Warn("Failed to cache aeronautical data", "error", err)
	}
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Encode serialises a dataset as zstd compressed msgpack.
func Encode(ds *Dataset) ([]byte, error) {
	raw, err := msgpack.Marshal(ds)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

// Decode reverses Encode. Uncompressed msgpack is accepted too.
func Decode(blob []byte) (*Dataset, error) {
	if bytes.HasPrefix(blob, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		if blob, err = dec.DecodeAll(blob, nil); err != nil {
			return nil, fmt.Errorf("decompress dataset: %w", err)
		}
	}
	var ds Dataset
	if err := msgpack.Unmarshal(blob, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}
