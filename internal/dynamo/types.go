package dynamo

import "math"

// WallRestitution is the reflection coefficient for viewport walls.
const WallRestitution = 1.0

type EntityID uint64

type Entity struct {
	ID     EntityID
	Pos    Vec2
	Vel    Vec2
	Mass   float64
	Radius float64
	Drag   float64
	Alive  bool
}

// NewEntity validates the physical properties of a new entity. The returned
// entity has no id until it is added to a World.
func NewEntity(pos, vel Vec2, mass, radius, drag float64) (*Entity, error) {
	if !pos.IsFinite() || !vel.IsFinite() {
		return nil, invalidf("non-finite position or velocity")
	}
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, invalidf("mass must be positive, got %g", mass)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, invalidf("radius must be positive, got %g", radius)
	}
	if !(drag > 0 && drag <= 1) {
		return nil, invalidf("drag must be in (0,1], got %g", drag)
	}
	return &Entity{Pos: pos, Vel: vel, Mass: mass, Radius: radius, Drag: drag}, nil
}

func (e *Entity) Diameter() float64 { return 2 * e.Radius }

func (e *Entity) Center() Vec2 {
	return Vec2{e.Pos.X + e.Radius, e.Pos.Y + e.Radius}
}

func (e *Entity) Momentum() Vec2 { return e.Vel.Scale(e.Mass) }

func (e *Entity) KineticEnergy() float64 {
	return 0.5 * e.Mass * e.Vel.Dot(e.Vel)
}

type Bounds struct {
	Width, Height float64
}

func (b Bounds) validate() error {
	if !(b.Width > 0) || !(b.Height > 0) || math.IsInf(b.Width, 0) || math.IsInf(b.Height, 0) {
		return invalidf("viewport must be positive, got %gx%g", b.Width, b.Height)
	}
	return nil
}

// Contains reports whether e lies fully inside the viewport.
func (b Bounds) Contains(e *Entity) bool {
	d := e.Diameter()
	return e.Pos.X >= 0 && e.Pos.X <= b.Width-d && e.Pos.Y >= 0 && e.Pos.Y <= b.Height-d
}

type Params struct {
	Gravity      bool
	GravityAccel float64
	Restitution  float64
}

func DefaultParams() Params {
	return Params{
		Gravity:      true,
		GravityAccel: 0.1,
		Restitution:  0.9,
	}
}

func (p Params) validate() error {
	if !isFinite(p.GravityAccel) {
		return invalidf("gravity acceleration must be finite")
	}
	if !(p.Restitution >= 0 && p.Restitution <= 1) {
		return invalidf("restitution must be in [0,1], got %g", p.Restitution)
	}
	return nil
}

type Integrator interface {
	Step(e *Entity, p Params)
}

type Metric interface {
	Name() string
	Observe(w *World, tick uint64)
	Value() float64
	Reset()
}
