package scenario

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"rttrainer/pkg/model"
)

// Cache memoises generated scenarios by their input. Reference data is
// identified by the dataset version the caller passes in.
type Cache struct {
	gen *Generator
	lru *lru.Cache[string, []model.ScenarioPoint]
}

// NewCache wraps gen with an LRU of the given size.
func NewCache(gen *Generator, size int) (*Cache, error) {
	if size <= 0 {
		size = 64
	}
	c, err := lru.New[string, []model.ScenarioPoint](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario cache: %w", err)
	}
	return &Cache{gen: gen, lru: c}, nil
}

// Generate returns the cached timeline for the input, generating it on a
// miss. The returned slice is a copy the caller may modify.
func (c *Cache) Generate(dataVersion string, in Input) ([]model.ScenarioPoint, error) {
	key := cacheKey(dataVersion, in)
	if pts, ok := c.lru.Get(key); ok {
		return clonePoints(pts), nil
	}
	pts, err := c.gen.Generate(in)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, clonePoints(pts))
	return pts, nil
}

// Len returns the number of cached scenarios.
func (c *Cache) Len() int {
	return c.lru.Len()
}

func cacheKey(dataVersion string, in Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s|%s|%s|%t|%d|%d", dataVersion, in.Seed, in.Callsign, in.Prefix, in.HasEmergency, len(in.Airports), len(in.Airspaces))
	for _, w := range in.Waypoints {
		fmt.Fprintf(&sb, "|%d:%s:%.6f:%.6f:%s", w.Index, w.ID, w.Location[0], w.Location[1], w.ReferenceObjectID)
	}
	return sb.String()
}

func clonePoints(pts []model.ScenarioPoint) []model.ScenarioPoint {
	out := make([]model.ScenarioPoint, len(pts))
	copy(out, pts)
	return out
}
