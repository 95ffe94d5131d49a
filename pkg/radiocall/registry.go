package radiocall

import (
	"errors"
	"fmt"
	"sort"

	"rttrainer/pkg/model"
)

// ErrUnimplementedStage is returned for a stage without a handler.
var ErrUnimplementedStage = errors.New("unimplemented stage")

// Reply is what a handler produces besides mistakes: the ATC response
// ("" when ATC does not answer) and the canonical call for the stage.
type Reply struct {
	Response string
	Expected string
}

// Handler checks a call for one stage.
type Handler func(c *Call) (Reply, error)

// Registry maps every stage to its handler.
type Registry map[model.Stage]Handler

func (r Registry) register(h Handler, stages ...model.Stage) {
	for _, s := range stages {
		if _, dup := r[s]; dup {
			panic(fmt.Sprintf("radiocall: stage %s registered twice", s))
		}
		r[s] = h
	}
}

// Missing returns the known stages without a handler, sorted.
func (r Registry) Missing() []model.Stage {
	var out []model.Stage
	for _, s := range model.AllStages() {
		if _, ok := r[s]; !ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate returns ErrUnimplementedStage naming every stage without a
// handler.
func (r Registry) Validate() error {
	if missing := r.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrUnimplementedStage, missing)
	}
	return nil
}

// DefaultRegistry returns the handlers for every stage.
func DefaultRegistry() Registry {
	r := make(Registry)
	registerStart(r)
	registerEnroute(r)
	registerEnd(r)
	registerGeneric(r)
	return r
}
