package integrators

import (
	"fmt"

	"github.com/san-kum/bugsim/internal/dynamo"
)

// Euler advances an entity by one unit step: position first, then velocity.
// Drag is applied only while gravity is enabled.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(ent *dynamo.Entity, p dynamo.Params) {
	ent.Pos = ent.Pos.Add(ent.Vel)
	applyGravity(ent, p)
}

// SemiImplicit updates velocity before position.
type SemiImplicit struct{}

func NewSemiImplicit() *SemiImplicit {
	return &SemiImplicit{}
}

func (s *SemiImplicit) Step(ent *dynamo.Entity, p dynamo.Params) {
	applyGravity(ent, p)
	ent.Pos = ent.Pos.Add(ent.Vel)
}

func applyGravity(ent *dynamo.Entity, p dynamo.Params) {
	if !p.Gravity {
		return
	}
	ent.Vel.Y += p.GravityAccel
	ent.Vel = ent.Vel.Scale(ent.Drag)
}

// ByName returns the integrator registered under name.
func ByName(name string) (dynamo.Integrator, error) {
	switch name {
	case "", "euler":
		return NewEuler(), nil
	case "semi-implicit":
		return NewSemiImplicit(), nil
	}
	return nil, fmt.Errorf("unknown integrator: %s", name)
}

func Names() []string {
	return []string{"euler", "semi-implicit"}
}
