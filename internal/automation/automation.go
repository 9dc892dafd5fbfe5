// Package automation scripts control actions against a scheduler at fixed
// ticks, so interactive sessions can be replayed headless.
package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Actions understood by a scenario event.
const (
	ActionImpulse = "impulse"
	ActionSpawn   = "spawn"
	ActionExplode = "explode"
	ActionGravity = "gravity"
)

// Scenario defines a scripted run
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Ticks       int     `yaml:"ticks"`
	Events      []Event `yaml:"events"`
}

// Event fires after At ticks have completed, before the next one. A gravity
// event toggles gravity unless Enabled pins it on or off.
type Event struct {
	At        uint64  `yaml:"at"`
	Action    string  `yaml:"action"`
	Count     int     `yaml:"count"`
	Magnitude float64 `yaml:"magnitude"`
	Enabled   *bool   `yaml:"enabled"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (sc *Scenario) Validate() error {
	if sc.Ticks <= 0 {
		return fmt.Errorf("%w: scenario ticks must be positive, got %d", dynamo.ErrInvalidConfiguration, sc.Ticks)
	}
	perTick := make(map[uint64]int)
	for i, ev := range sc.Events {
		switch ev.Action {
		case ActionImpulse, ActionSpawn, ActionExplode, ActionGravity:
		default:
			return fmt.Errorf("%w: event %d: unknown action %q", dynamo.ErrInvalidConfiguration, i, ev.Action)
		}
		if ev.At >= uint64(sc.Ticks) {
			return fmt.Errorf("%w: event %d: tick %d beyond scenario end %d", dynamo.ErrInvalidConfiguration, i, ev.At, sc.Ticks)
		}
		if ev.Count < 0 {
			return fmt.Errorf("%w: event %d: negative count", dynamo.ErrInvalidConfiguration, i)
		}
		perTick[ev.At]++
		if perTick[ev.At] > sim.DefaultQueueSize {
			return fmt.Errorf("%w: more than %d events at tick %d", dynamo.ErrInvalidConfiguration, sim.DefaultQueueSize, ev.At)
		}
	}
	return nil
}

// Command turns the event into a scheduler command. Count repeats spawn and
// explode; a zero count means once.
func (ev Event) Command(defaultImpulse float64) sim.Command {
	n := ev.Count
	if n == 0 {
		n = 1
	}
	return func(s *sim.Scheduler) error {
		switch ev.Action {
		case ActionImpulse:
			mag := ev.Magnitude
			if mag == 0 {
				mag = defaultImpulse
			}
			return s.ApplyRandomImpulse(mag)
		case ActionGravity:
			if ev.Enabled != nil {
				s.SetGravity(*ev.Enabled)
			} else {
				s.ToggleGravity()
			}
			return nil
		case ActionSpawn:
			for i := 0; i < n; i++ {
				if _, err := s.SpawnEntity(); err != nil {
					return err
				}
			}
			return nil
		case ActionExplode:
			for i := 0; i < n; i++ {
				if _, err := s.RemoveRandomEntity(); err != nil {
					return fmt.Errorf("explode at tick %d: %w", ev.At, err)
				}
			}
			return nil
		}
		return fmt.Errorf("unknown action %q", ev.Action)
	}
}

// RunScenario drives s for the scenario's ticks, submitting each event's
// command through the scheduler queue once its tick has completed. Failed
// commands are collected in the result, they do not stop the run.
func RunScenario(ctx context.Context, s *sim.Scheduler, sc *Scenario, defaultImpulse float64) (*sim.Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	events := append([]Event(nil), sc.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	next := 0
	var submitErr error
	submitDue := func(tick uint64) {
		for next < len(events) && events[next].At <= tick {
			if err := s.Submit(ctx, events[next].Command(defaultImpulse)); err != nil && submitErr == nil {
				submitErr = err
			}
			next++
		}
	}

	submitDue(s.Tick())
	s.AddObserver(sim.ObserverFunc(func(f sim.Frame) { submitDue(f.Tick) }))

	result, err := s.Run(ctx, sc.Ticks)
	if err != nil {
		return result, err
	}
	return result, submitErr
}
