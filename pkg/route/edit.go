// Package route edits waypoint lists and searches seeded training routes.
package route

import (
	"errors"
	"fmt"

	"rttrainer/pkg/model"
)

// ErrIndexOutOfRange is returned for edits at a position the route does not have.
var ErrIndexOutOfRange = errors.New("waypoint index out of range")

// Renumber rewrites Index so it matches the slice position.
func Renumber(wps []model.Waypoint) []model.Waypoint {
	for i := range wps {
		wps[i].Index = i
	}
	return wps
}

// Insert returns a copy of wps with wp at position i. i == len(wps) appends.
func Insert(wps []model.Waypoint, i int, wp model.Waypoint) ([]model.Waypoint, error) {
	if i < 0 || i > len(wps) {
		return nil, fmt.Errorf("insert at %d of %d: %w", i, len(wps), ErrIndexOutOfRange)
	}
	out := make([]model.Waypoint, 0, len(wps)+1)
	out = append(out, wps[:i]...)
	out = append(out, wp)
	out = append(out, wps[i:]...)
	return Renumber(out), nil
}

// Remove returns a copy of wps without the waypoint at position i.
func Remove(wps []model.Waypoint, i int) ([]model.Waypoint, error) {
	if i < 0 || i >= len(wps) {
		return nil, fmt.Errorf("remove %d of %d: %w", i, len(wps), ErrIndexOutOfRange)
	}
	out := make([]model.Waypoint, 0, len(wps)-1)
	out = append(out, wps[:i]...)
	out = append(out, wps[i+1:]...)
	return Renumber(out), nil
}

// Move returns a copy of wps with the waypoint at from placed at to.
func Move(wps []model.Waypoint, from, to int) ([]model.Waypoint, error) {
	if from < 0 || from >= len(wps) || to < 0 || to >= len(wps) {
		return nil, fmt.Errorf("move %d to %d of %d: %w", from, to, len(wps), ErrIndexOutOfRange)
	}
	wp := wps[from]
	out, _ := Remove(wps, from)
	return Insert(out, to, wp)
}

// Validate checks that the route can be flown: at least two waypoints,
// dense indices and unique ids.
func Validate(wps []model.Waypoint) error {
	if len(wps) < 2 {
		return fmt.Errorf("route has %d waypoints, need at least 2: %w", len(wps), ErrInvalidRoute)
	}
	seen := make(map[string]bool, len(wps))
	for i, wp := range wps {
		if wp.Index != i {
			return fmt.Errorf("waypoint %q has index %d at position %d: %w", wp.ID, wp.Index, i, ErrInvalidRoute)
		}
		if wp.ID != "" && seen[wp.ID] {
			return fmt.Errorf("duplicate waypoint id %q: %w", wp.ID, ErrInvalidRoute)
		}
		seen[wp.ID] = true
	}
	return nil
}
