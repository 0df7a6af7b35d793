package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/netsim-forge/netsim/pkg/netutil"
	"github.com/netsim-forge/netsim/pkg/simengine"
)

// Runner replays a Scenario's steps against a live engine.
type Runner struct {
	Engine *simengine.Engine

	// Sleep is the wait-step seam tests inject a near-zero stand-in
	// through instead of waiting out real step durations.
	Sleep func(time.Duration)
}

// NewRunner returns a Runner driving engine, with the real time.Sleep.
func NewRunner(engine *simengine.Engine) *Runner {
	return &Runner{Engine: engine, Sleep: time.Sleep}
}

// Run executes every step in order, stopping early if ctx is canceled.
func (r *Runner) Run(ctx context.Context, s *Scenario) error {
	for i, step := range s.Steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := r.runStep(s.Name, step); err != nil {
			return fmt.Errorf("step[%d] %q: %w", i, step.Action, err)
		}
	}
	return nil
}

func (r *Runner) runStep(name string, step Step) error {
	log := netutil.WithScenario(name)
	switch step.Action {
	case ActionWait:
		log.Infof("waiting %s", step.Duration)
		r.Sleep(step.Duration)
	case ActionFailLink:
		log.WithField("a", step.A).WithField("b", step.B).Info("failing link")
		r.Engine.InjectLinkFailure(step.A, step.B)
	case ActionRestoreLink:
		log.WithField("a", step.A).WithField("b", step.B).Info("restoring link")
		r.Engine.RestoreLink(step.A, step.B)
	default:
		return fmt.Errorf("unhandled action %q", step.Action)
	}
	return nil
}
