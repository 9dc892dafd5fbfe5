// Package lifecycle creates and removes entities and resets their velocities.
// All randomness comes from an injected source so runs are reproducible.
package lifecycle

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/bugsim/internal/dynamo"
)

const (
	DefaultMass     = 1.0
	DefaultRadius   = 25.0
	DefaultDrag     = 0.995
	DefaultMaxSpeed = 2.5

	// MaxImpulse bounds impulse magnitudes and spawn speeds so relative
	// velocities and kinetic energy stay finite.
	MaxImpulse = 1e6
)

// Template describes the physical properties of spawned entities.
type Template struct {
	Mass     float64
	Radius   float64
	Drag     float64
	MaxSpeed float64
}

func DefaultTemplate() Template {
	return Template{
		Mass:     DefaultMass,
		Radius:   DefaultRadius,
		Drag:     DefaultDrag,
		MaxSpeed: DefaultMaxSpeed,
	}
}

type Lifecycle struct {
	rng  *rand.Rand
	tmpl Template
}

func New(rng *rand.Rand, tmpl Template) *Lifecycle {
	return &Lifecycle{rng: rng, tmpl: tmpl}
}

// NewSeeded is New with a rand source seeded from seed.
func NewSeeded(seed int64, tmpl Template) *Lifecycle {
	return New(rand.New(rand.NewSource(seed)), tmpl)
}

func (l *Lifecycle) Template() Template { return l.tmpl }

// Spawn adds one entity at a uniformly random position inside the viewport
// with a uniformly random velocity in [-MaxSpeed, MaxSpeed] per axis.
func (l *Lifecycle) Spawn(w *dynamo.World) (dynamo.EntityID, error) {
	b := w.Bounds()
	size := 2 * l.tmpl.Radius
	pos := dynamo.Vec2{
		X: l.rng.Float64() * math.Max(0, b.Width-size),
		Y: l.rng.Float64() * math.Max(0, b.Height-size),
	}
	vel := dynamo.Vec2{
		X: l.uniform(l.tmpl.MaxSpeed),
		Y: l.uniform(l.tmpl.MaxSpeed),
	}

	e, err := dynamo.NewEntity(pos, vel, l.tmpl.Mass, l.tmpl.Radius, l.tmpl.Drag)
	if err != nil {
		return 0, err
	}
	return w.Add(e)
}

// Populate spawns n entities.
func (l *Lifecycle) Populate(w *dynamo.World, n int) ([]dynamo.EntityID, error) {
	ids := make([]dynamo.EntityID, 0, n)
	for i := 0; i < n; i++ {
		id, err := l.Spawn(w)
		if err != nil {
			return ids, fmt.Errorf("spawn %d/%d: %w", i+1, n, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (l *Lifecycle) Remove(w *dynamo.World, id dynamo.EntityID) (*dynamo.Entity, error) {
	if w.Len() == 0 {
		return nil, &dynamo.EntityError{Op: "remove", ID: id, Err: dynamo.ErrEntityNotFound}
	}
	return w.Remove(id)
}

// RemoveRandom removes one live entity chosen uniformly.
func (l *Lifecycle) RemoveRandom(w *dynamo.World) (*dynamo.Entity, error) {
	if w.Len() == 0 {
		return nil, dynamo.ErrNoEntitiesAvailable
	}
	victim := w.Entities()[l.rng.Intn(w.Len())]
	return w.Remove(victim.ID)
}

// ApplyRandomImpulse replaces every velocity with a random vector whose
// components lie in [-magnitude, magnitude]. Magnitude must be in
// [0, MaxImpulse].
func (l *Lifecycle) ApplyRandomImpulse(w *dynamo.World, magnitude float64) error {
	if math.IsNaN(magnitude) || magnitude < 0 || magnitude > MaxImpulse {
		return fmt.Errorf("%w: magnitude %g", dynamo.ErrInvalidImpulse, magnitude)
	}
	for _, e := range w.Entities() {
		e.Vel = dynamo.Vec2{X: l.uniform(magnitude), Y: l.uniform(magnitude)}
	}
	return nil
}

func (l *Lifecycle) uniform(m float64) float64 {
	return (l.rng.Float64()*2 - 1) * m
}
