// Package scenario parses YAML fault-injection timelines and replays
// them against a running simulation engine: wait, fail a link, restore
// a link, in the order given.
package scenario

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/netsim-forge/netsim/pkg/netutil"
)

// Scenario is a parsed fault-injection timeline.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one timeline action. Only the fields relevant to Action are set.
type Step struct {
	Name   string     `yaml:"name,omitempty"`
	Action StepAction `yaml:"action"`

	// wait
	Duration time.Duration `yaml:"duration,omitempty"`

	// fail-link, restore-link
	A string `yaml:"a,omitempty"`
	B string `yaml:"b,omitempty"`
}

// StepAction identifies the kind of timeline action.
type StepAction string

const (
	ActionWait        StepAction = "wait"
	ActionFailLink    StepAction = "fail-link"
	ActionRestoreLink StepAction = "restore-link"
)

// ParseFile reads and validates a YAML scenario file.
func ParseFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks that every step carries the fields its action needs.
func (s *Scenario) Validate() error {
	v := &netutil.ValidationBuilder{}
	v.Add(s.Name != "", "name is required")
	v.Add(len(s.Steps) > 0, "at least one step is required")

	for i, step := range s.Steps {
		prefix := fmt.Sprintf("step[%d]", i)
		switch step.Action {
		case ActionWait:
			if step.Duration <= 0 {
				v.AddErrorf("%s: wait requires a positive duration", prefix)
			}
		case ActionFailLink, ActionRestoreLink:
			if step.A == "" || step.B == "" {
				v.AddErrorf("%s: %s requires both a and b", prefix, step.Action)
			}
		case "":
			v.AddErrorf("%s: action is required", prefix)
		default:
			v.AddErrorf("%s: unknown action %q", prefix, step.Action)
		}
	}
	return v.Build()
}
