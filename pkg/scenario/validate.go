package scenario

import (
	"fmt"

	"rttrainer/pkg/model"
)

// Validate checks the ordering guarantees of a timeline: indices are dense
// from zero and neither time nor distance along the route decreases.
func Validate(points []model.ScenarioPoint) error {
	for i, p := range points {
		if p.Index != i {
			return fmt.Errorf("point %d has index %d: %w", i, p.Index, ErrInconsistentTimeline)
		}
		if !p.Stage.IsValid() {
			return fmt.Errorf("point %d has unknown stage %q: %w", i, p.Stage, ErrInconsistentTimeline)
		}
		if i == 0 {
			continue
		}
		prev := points[i-1]
		if p.TimeAtPoint < prev.TimeAtPoint {
			return fmt.Errorf("point %d time %d before %d: %w", i, p.TimeAtPoint, prev.TimeAtPoint, ErrInconsistentTimeline)
		}
		if p.DistanceAlongRoute < prev.DistanceAlongRoute {
			return fmt.Errorf("point %d distance %.1f before %.1f: %w", i, p.DistanceAlongRoute, prev.DistanceAlongRoute, ErrInconsistentTimeline)
		}
	}
	return nil
}
