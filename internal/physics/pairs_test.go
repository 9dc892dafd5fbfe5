package physics

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/bugsim/internal/dynamo"
)

func TestResolvePair_HeadOnSwap(t *testing.T) {
	g := NewWithT(t)
	c := NewPairCollider(1.0)
	v := 3.0

	a := entityAt(0, 100, v, 0)
	b := entityAt(40, 100, -v, 0)

	g.Expect(c.ResolvePair(a, b)).To(Equal(Resolved))

	g.Expect(a.Vel.X).To(BeNumerically("~", -v, 1e-12))
	g.Expect(b.Vel.X).To(BeNumerically("~", v, 1e-12))
	g.Expect(a.Vel.Y).To(BeZero())
	g.Expect(b.Vel.Y).To(BeZero())

	dist := a.Center().Sub(b.Center()).Len()
	g.Expect(dist).To(BeNumerically(">=", a.Radius+b.Radius-1e-9))
}

func TestResolvePair_SeparatingUntouched(t *testing.T) {
	g := NewWithT(t)
	c := NewPairCollider(0.9)

	a := entityAt(0, 100, -1, 0.5)
	b := entityAt(40, 100, 1, 0.5)
	posA, posB := a.Pos, b.Pos

	g.Expect(c.ResolvePair(a, b)).To(Equal(Separating))
	g.Expect(a.Vel).To(Equal(dynamo.Vec2{X: -1, Y: 0.5}))
	g.Expect(b.Vel).To(Equal(dynamo.Vec2{X: 1, Y: 0.5}))
	g.Expect(a.Pos).To(Equal(posA))
	g.Expect(b.Pos).To(Equal(posB))
}

func TestResolvePair_Apart(t *testing.T) {
	g := NewWithT(t)
	c := NewPairCollider(1.0)

	a := entityAt(0, 0, 5, 0)
	b := entityAt(50, 0, -5, 0)

	g.Expect(c.ResolvePair(a, b)).To(Equal(Apart))
	g.Expect(a.Vel.X).To(Equal(5.0))
	g.Expect(b.Vel.X).To(Equal(-5.0))
}

func TestResolvePair_Degenerate(t *testing.T) {
	g := NewWithT(t)
	c := NewPairCollider(1.0)

	a := entityAt(10, 10, 1, 0)
	b := entityAt(10, 10, -1, 0)

	g.Expect(c.ResolvePair(a, b)).To(Equal(Degenerate))
	g.Expect(a.Vel.IsFinite()).To(BeTrue())
	g.Expect(b.Vel.IsFinite()).To(BeTrue())
	g.Expect(a.Pos.IsFinite()).To(BeTrue())
}

func TestResolvePair_OverflowingVelocities(t *testing.T) {
	g := NewWithT(t)
	c := NewPairCollider(1.0)

	a := entityAt(0, 100, 1e308, 0)
	b := entityAt(40, 100, -1e308, 0)
	posA, posB := a.Pos, b.Pos

	g.Expect(c.ResolvePair(a, b)).To(Equal(Degenerate))
	g.Expect(a.Vel.IsFinite()).To(BeTrue())
	g.Expect(b.Vel.IsFinite()).To(BeTrue())
	g.Expect(a.Pos).To(Equal(posA))
	g.Expect(b.Pos).To(Equal(posB))
}

func TestResolvePair_ConservesMomentum(t *testing.T) {
	tests := []struct {
		name         string
		restitution  float64
		massA, massB float64
	}{
		{"elastic equal", 1.0, 1, 1},
		{"elastic unequal", 1.0, 1, 4},
		{"lossy unequal", 0.9, 2.5, 0.5},
		{"inelastic", 0, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			c := NewPairCollider(tt.restitution)

			a := entityAt(0, 0, 2, 1)
			a.Mass = tt.massA
			b := entityAt(30, 20, -1, -2)
			b.Mass = tt.massB

			before := a.Momentum().Add(b.Momentum())
			g.Expect(c.ResolvePair(a, b)).To(Equal(Resolved))
			after := a.Momentum().Add(b.Momentum())

			g.Expect(after.X).To(BeNumerically("~", before.X, 1e-9))
			g.Expect(after.Y).To(BeNumerically("~", before.Y, 1e-9))
		})
	}
}

func TestResolvePair_ElasticConservesEnergy(t *testing.T) {
	g := NewWithT(t)
	c := NewPairCollider(1.0)

	a := entityAt(0, 0, 2, 1)
	b := entityAt(30, 20, -1, -2)
	b.Mass = 3

	before := a.KineticEnergy() + b.KineticEnergy()
	c.ResolvePair(a, b)
	after := a.KineticEnergy() + b.KineticEnergy()

	g.Expect(math.Abs(after - before)).To(BeNumerically("<", 1e-9))
}

func TestResolve_Stats(t *testing.T) {
	g := NewWithT(t)
	c := NewPairCollider(1.0)

	entities := []*dynamo.Entity{
		entityAt(0, 0, 1, 0),
		entityAt(40, 0, -1, 0),
		entityAt(300, 300, 0, 0),
		entityAt(300, 300, 0, 0),
	}
	dead := entityAt(20, 0, 0, 0)
	dead.Alive = false
	entities = append(entities, dead)

	st := c.Resolve(entities)

	g.Expect(st.Checked).To(Equal(6))
	g.Expect(st.Resolved).To(Equal(1))
	g.Expect(st.Degenerate).To(Equal(1))
	g.Expect(st.Separating).To(Equal(0))
}

func TestContact_String(t *testing.T) {
	tests := []struct {
		c    Contact
		want string
	}{
		{Apart, "apart"},
		{Degenerate, "degenerate"},
		{Separating, "separating"},
		{Resolved, "resolved"},
		{Contact(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
