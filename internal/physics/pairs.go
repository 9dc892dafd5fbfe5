package physics

import (
	"math"

	"github.com/san-kum/bugsim/internal/dynamo"
)

// Contact is the outcome of checking one pair.
type Contact int

const (
	// Apart: the pair does not overlap.
	Apart Contact = iota
	// Degenerate: centers coincide or the velocities overflow, so the pair
	// is left untouched.
	Degenerate
	// Separating: the pair overlaps but is already moving apart.
	Separating
	// Resolved: impulse and positional correction were applied.
	Resolved
)

func (c Contact) String() string {
	switch c {
	case Apart:
		return "apart"
	case Degenerate:
		return "degenerate"
	case Separating:
		return "separating"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// Stats counts pair outcomes for one pass.
type Stats struct {
	Checked    int
	Resolved   int
	Separating int
	Degenerate int
}

func (s *Stats) Add(o Stats) {
	s.Checked += o.Checked
	s.Resolved += o.Resolved
	s.Separating += o.Separating
	s.Degenerate += o.Degenerate
}

// PairCollider resolves overlapping pairs with an equal-and-opposite impulse
// along the line of centers, scaled by Restitution.
type PairCollider struct {
	Restitution float64
}

func NewPairCollider(restitution float64) *PairCollider {
	return &PairCollider{Restitution: restitution}
}

// Resolve checks every unordered pair of live entities. Cost is O(n^2).
func (c *PairCollider) Resolve(entities []*dynamo.Entity) Stats {
	var st Stats
	n := len(entities)
	for i := 0; i < n; i++ {
		a := entities[i]
		if !a.Alive {
			continue
		}
		for j := i + 1; j < n; j++ {
			b := entities[j]
			if !b.Alive {
				continue
			}
			st.Checked++
			switch c.ResolvePair(a, b) {
			case Resolved:
				st.Resolved++
			case Separating:
				st.Separating++
			case Degenerate:
				st.Degenerate++
			}
		}
	}
	return st
}

func (c *PairCollider) ResolvePair(a, b *dynamo.Entity) Contact {
	delta := a.Center().Sub(b.Center())
	dist := delta.Len()
	reach := a.Radius + b.Radius

	if dist >= reach {
		return Apart
	}
	if dist == 0 || math.IsNaN(dist) {
		return Degenerate
	}

	n := delta.Scale(1 / dist)
	rel := a.Vel.Sub(b.Vel).Dot(n)
	if math.IsNaN(rel) || math.IsInf(rel, 0) {
		return Degenerate
	}
	if rel > 0 {
		return Separating
	}

	j := 2 * rel / (a.Mass + b.Mass) * c.Restitution
	va := a.Vel.Sub(n.Scale(j * b.Mass))
	vb := b.Vel.Add(n.Scale(j * a.Mass))
	if !va.IsFinite() || !vb.IsFinite() {
		return Degenerate
	}
	a.Vel, b.Vel = va, vb

	correction := (reach - dist) / 2
	a.Pos = a.Pos.Add(n.Scale(correction))
	b.Pos = b.Pos.Sub(n.Scale(correction))

	return Resolved
}
