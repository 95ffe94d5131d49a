package aerodata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"rttrainer/pkg/geo"
	"rttrainer/pkg/model"
)

// Source provides raw reference data.
type Source interface {
	Airports(ctx context.Context) ([]model.Airport, error)
	Airspaces(ctx context.Context) ([]model.Airspace, error)
	Name() string
}

// FileSource reads airports from a JSON array and airspaces from either a
// JSON array or a GeoJSON feature collection (by extension).
type FileSource struct {
	AirportsPath  string
	AirspacesPath string
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Airports(ctx context.Context) ([]model.Airport, error) {
	data, err := os.ReadFile(f.AirportsPath)
	if err != nil {
		return nil, fmt.Errorf("read airports: %w", err)
	}
	var out []model.Airport
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse airports %s: %w", f.AirportsPath, err)
	}
	return out, nil
}

func (f *FileSource) Airspaces(ctx context.Context) ([]model.Airspace, error) {
	data, err := os.ReadFile(f.AirspacesPath)
	if err != nil {
		return nil, fmt.Errorf("read airspaces: %w", err)
	}
	if strings.EqualFold(filepath.Ext(f.AirspacesPath), ".geojson") {
		return geo.AirspacesFromGeoJSON(data)
	}
	var out []model.Airspace
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse airspaces %s: %w", f.AirspacesPath, err)
	}
	return out, nil
}

// Getter is the part of request.Client the API source needs.
type Getter interface {
	GetWithHeaders(ctx context.Context, u string, headers map[string]string, cacheKey string) ([]byte, error)
}

// maxPages stops runaway pagination.
const maxPages = 50

// APISource pages through the OpenAIP core API for one country.
type APISource struct {
	Client   Getter
	BaseURL  string // e.g. https://api.core.openaip.net/api
	APIKey   string
	Country  string
	PageSize int
}

func (a *APISource) Name() string { return "openaip" }

func (a *APISource) Airports(ctx context.Context) ([]model.Airport, error) {
	items, err := fetchAll[apiAirport](ctx, a, "airports")
	if err != nil {
		return nil, err
	}
	out := make([]model.Airport, 0, len(items))
	for i := range items {
		ap, err := items[i].toModel()
		if err != nil {
			slog.Debug("Skipping airport", "error", err)
			continue
		}
		out = append(out, ap)
	}
	return out, nil
}

func (a *APISource) Airspaces(ctx context.Context) ([]model.Airspace, error) {
	items, err := fetchAll[apiAirspace](ctx, a, "airspaces")
	if err != nil {
		return nil, err
	}
	out := make([]model.Airspace, 0, len(items))
	for i := range items {
		as, err := items[i].toModel()
		if err != nil {
			slog.Debug("Skipping airspace", "error", err)
			continue
		}
		out = append(out, as)
	}
	return out, nil
}

func fetchAll[T any](ctx context.Context, a *APISource, resource string) ([]T, error) {
	limit := a.PageSize
	if limit <= 0 {
		limit = 1000
	}
	headers := map[string]string{"Accept": "application/json"}
	if a.APIKey != "" {
		headers["x-openaip-api-key"] = a.APIKey
	}

	var all []T
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		q.Set("country", a.Country)
		q.Set("page", fmt.Sprint(page))
		q.Set("limit", fmt.Sprint(limit))
		u := strings.TrimRight(a.BaseURL, "/") + "/" + resource + "?" + q.Encode()
		key := fmt.Sprintf("openaip:%s:%s:%d:%d", resource, a.Country, limit, page)

		body, err := a.Client.GetWithHeaders(ctx, u, headers, key)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", resource, page, err)
		}
		var p apiPage[T]
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode %s page %d: %w", resource, page, err)
		}
		all = append(all, p.Items...)
		if page >= p.TotalPages || len(p.Items) == 0 {
			break
		}
	}
	slog.Debug("Fetched aeronautical data", "resource", resource, "country", a.Country, "count", len(all))
	return all, nil
}
