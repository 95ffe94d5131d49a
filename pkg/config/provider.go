package config

import (
	"context"
	"strconv"

	"rttrainer/pkg/store"
)

// Provider defines the interface for accessing unified configuration.
type Provider interface {
	// Pilot defaults for new scenarios
	Callsign(ctx context.Context) string
	Prefix(ctx context.Context) string
	AircraftType(ctx context.Context) string
	EmergencyChance(ctx context.Context) float64

	// Retry policy
	RevealThreshold(ctx context.Context) int
	DeclineCooldown(ctx context.Context) int

	// Effective value of every runtime key
	Settings(ctx context.Context) map[string]string

	// Raw access (for components that need deep access)
	AppConfig() *Config
}

// UnifiedProvider implements Provider by bridging static Config and persistent Store.
type UnifiedProvider struct {
	base  *Config
	store store.StateStore
}

// NewProvider creates a new UnifiedProvider.
func NewProvider(base *Config, st store.StateStore) *UnifiedProvider {
	return &UnifiedProvider{
		base:  base,
		store: st,
	}
}

func (p *UnifiedProvider) AppConfig() *Config { return p.base }

func (p *UnifiedProvider) Callsign(ctx context.Context) string {
	return p.getString(ctx, KeyCallsign, p.base.Scenario.Callsign)
}

func (p *UnifiedProvider) Prefix(ctx context.Context) string {
	return p.getString(ctx, KeyPrefix, p.base.Scenario.Prefix)
}

func (p *UnifiedProvider) AircraftType(ctx context.Context) string {
	return p.getString(ctx, KeyAircraftType, p.base.Scenario.AircraftType)
}

// EmergencyChance is the probability in [0,1] that a generated scenario
// includes a PAN-PAN. Out of range values fall back to zero.
func (p *UnifiedProvider) EmergencyChance(ctx context.Context) float64 {
	f := p.getFloat64(ctx, KeyEmergencyChance, 0)
	if f < 0 || f > 1 {
		return 0
	}
	return f
}

func (p *UnifiedProvider) RevealThreshold(ctx context.Context) int {
	return p.positive(p.getInt(ctx, KeyRevealThreshold, p.base.Session.RevealThreshold), p.base.Session.RevealThreshold)
}

func (p *UnifiedProvider) DeclineCooldown(ctx context.Context) int {
	return p.positive(p.getInt(ctx, KeyDeclineCooldown, p.base.Session.DeclineCooldown), p.base.Session.DeclineCooldown)
}

// Settings returns the effective value of every runtime key.
func (p *UnifiedProvider) Settings(ctx context.Context) map[string]string {
	return map[string]string{
		KeyCallsign:        p.Callsign(ctx),
		KeyPrefix:          p.Prefix(ctx),
		KeyAircraftType:    p.AircraftType(ctx),
		KeyRevealThreshold: strconv.Itoa(p.RevealThreshold(ctx)),
		KeyDeclineCooldown: strconv.Itoa(p.DeclineCooldown(ctx)),
		KeyEmergencyChance: strconv.FormatFloat(p.EmergencyChance(ctx), 'f', -1, 64),
	}
}

// --- Helpers ---

func (p *UnifiedProvider) positive(v, fallback int) int {
	if v < 1 {
		return fallback
	}
	return v
}

func (p *UnifiedProvider) getString(ctx context.Context, key, fallback string) string {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			return val
		}
	}
	return fallback
}

func (p *UnifiedProvider) getInt(ctx context.Context, key string, fallback int) int {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			if i, err := strconv.Atoi(val); err == nil {
				return i
			}
		}
	}
	return fallback
}

func (p *UnifiedProvider) getFloat64(ctx context.Context, key string, fallback float64) float64 {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return f
			}
		}
	}
	return fallback
}
