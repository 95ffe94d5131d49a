package store

import (
	"context"
	"time"

	"rttrainer/pkg/model"
)

// Scenario is a generated timeline as it is persisted.
type Scenario struct {
	ID           string                `json:"id"`
	Seed         string                `json:"seed"`
	Callsign     string                `json:"callsign"`
	Prefix       string                `json:"prefix"`
	AircraftType string                `json:"aircraft_type"`
	HasEmergency bool                  `json:"has_emergency"`
	DataVersion  string                `json:"data_version"`
	Waypoints    []model.Waypoint      `json:"waypoints"`
	Points       []model.ScenarioPoint `json:"points"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ScenarioSummary is a listing row without the timeline.
type ScenarioSummary struct {
	ID        string    `json:"id"`
	Seed      string    `json:"seed"`
	Callsign  string    `json:"callsign"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// ScenarioStore handles generated scenarios.
type ScenarioStore interface {
	SaveScenario(ctx context.Context, sc *Scenario) error
	GetScenario(ctx context.Context, id string) (*Scenario, error)
	ListScenarios(ctx context.Context, limit int) ([]ScenarioSummary, error)
}

// AttemptStore handles the calls made in practice sessions.
type AttemptStore interface {
	SaveAttempt(ctx context.Context, a *model.Attempt) error
	ListAttempts(ctx context.Context, sessionID string) ([]model.Attempt, error)
}

// CacheStore handles generic key-value caching.
type CacheStore interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	HasCache(ctx context.Context, key string) (bool, error)
	SetCache(ctx context.Context, key string, val []byte) error
	ListCacheKeys(ctx context.Context, prefix string) ([]string, error)
}

// StateStore handles persistent application state.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}
