package lifecycle

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/bugsim/internal/dynamo"
)

func newWorld(t *testing.T) *dynamo.World {
	t.Helper()
	w, err := dynamo.NewWorld(dynamo.Bounds{Width: 800, Height: 600}, dynamo.DefaultParams())
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w
}

func TestSpawn(t *testing.T) {
	g := NewWithT(t)
	w := newWorld(t)
	lc := NewSeeded(1, DefaultTemplate())

	for i := 0; i < 200; i++ {
		before := w.Len()
		id, err := lc.Spawn(w)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(w.Len()).To(Equal(before + 1))

		e, ok := w.Lookup(id)
		g.Expect(ok).To(BeTrue())
		g.Expect(e.Pos.X).To(And(BeNumerically(">=", 0), BeNumerically("<=", 800-50)))
		g.Expect(e.Pos.Y).To(And(BeNumerically(">=", 0), BeNumerically("<=", 600-50)))
		g.Expect(math.Abs(e.Vel.X)).To(BeNumerically("<=", DefaultMaxSpeed))
		g.Expect(math.Abs(e.Vel.Y)).To(BeNumerically("<=", DefaultMaxSpeed))
		g.Expect(e.Mass).To(Equal(1.0))
		g.Expect(e.Radius).To(Equal(25.0))
		g.Expect(e.Drag).To(Equal(0.995))
		g.Expect(e.Alive).To(BeTrue())
	}
}

func TestSpawn_InvalidTemplate(t *testing.T) {
	w := newWorld(t)
	lc := NewSeeded(1, Template{Mass: 0, Radius: 25, Drag: 0.995})

	_, err := lc.Spawn(w)
	if !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
	if w.Len() != 0 {
		t.Errorf("world changed after rejected spawn: %d entities", w.Len())
	}
}

func TestSpawn_Deterministic(t *testing.T) {
	w1, w2 := newWorld(t), newWorld(t)
	if _, err := NewSeeded(42, DefaultTemplate()).Populate(w1, 10); err != nil {
		t.Fatalf("populate failed: %v", err)
	}
	if _, err := NewSeeded(42, DefaultTemplate()).Populate(w2, 10); err != nil {
		t.Fatalf("populate failed: %v", err)
	}

	for i := range w1.Entities() {
		a, b := w1.Entities()[i], w2.Entities()[i]
		if a.Pos != b.Pos || a.Vel != b.Vel {
			t.Errorf("entity %d differs between equally seeded runs", i)
		}
	}
}

func TestRemoveRandom_EmptyWorld(t *testing.T) {
	w := newWorld(t)
	lc := NewSeeded(1, DefaultTemplate())

	e, err := lc.RemoveRandom(w)
	if !errors.Is(err, dynamo.ErrNoEntitiesAvailable) {
		t.Errorf("expected ErrNoEntitiesAvailable, got %v", err)
	}
	if e != nil {
		t.Error("expected nil entity")
	}
	if w.Len() != 0 {
		t.Error("world changed")
	}
}

func TestRemoveRandom(t *testing.T) {
	g := NewWithT(t)
	w := newWorld(t)
	lc := NewSeeded(3, DefaultTemplate())
	_, err := lc.Populate(w, 5)
	g.Expect(err).NotTo(HaveOccurred())

	seen := map[dynamo.EntityID]bool{}
	for w.Len() > 0 {
		e, err := lc.RemoveRandom(w)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(e.Alive).To(BeFalse())
		g.Expect(seen).NotTo(HaveKey(e.ID))
		seen[e.ID] = true
	}
	g.Expect(seen).To(HaveLen(5))
}

func TestRemove(t *testing.T) {
	w := newWorld(t)
	lc := NewSeeded(1, DefaultTemplate())

	if _, err := lc.Remove(w, 1); !errors.Is(err, dynamo.ErrEntityNotFound) {
		t.Errorf("empty world: expected ErrEntityNotFound, got %v", err)
	}

	id, _ := lc.Spawn(w)
	if _, err := lc.Remove(w, id+100); !errors.Is(err, dynamo.ErrEntityNotFound) {
		t.Errorf("unknown id: expected ErrEntityNotFound, got %v", err)
	}
	if _, err := lc.Remove(w, id); err != nil {
		t.Errorf("remove failed: %v", err)
	}
	if w.Len() != 0 {
		t.Errorf("expected empty world, got %d", w.Len())
	}
}

func TestApplyRandomImpulse(t *testing.T) {
	g := NewWithT(t)
	w := newWorld(t)
	lc := NewSeeded(9, DefaultTemplate())
	_, err := lc.Populate(w, 20)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(lc.ApplyRandomImpulse(w, 1000)).To(Succeed())

	faster := 0
	for _, e := range w.Entities() {
		g.Expect(math.Abs(e.Vel.X)).To(BeNumerically("<=", 1000))
		g.Expect(math.Abs(e.Vel.Y)).To(BeNumerically("<=", 1000))
		if e.Vel.Len() > 2*DefaultMaxSpeed {
			faster++
		}
	}
	g.Expect(faster).To(BeNumerically(">", 0), "velocities were not reset")
}

func TestApplyRandomImpulse_Invalid(t *testing.T) {
	w := newWorld(t)
	lc := NewSeeded(9, DefaultTemplate())
	lc.Populate(w, 3)

	before := make([]dynamo.Vec2, 0, 3)
	for _, e := range w.Entities() {
		before = append(before, e.Vel)
	}

	for _, m := range []float64{math.NaN(), math.Inf(1), -1, MaxImpulse * 2, 1e308, math.MaxFloat64} {
		if err := lc.ApplyRandomImpulse(w, m); !errors.Is(err, dynamo.ErrInvalidImpulse) {
			t.Errorf("magnitude %g: expected ErrInvalidImpulse, got %v", m, err)
		}
	}

	for i, e := range w.Entities() {
		if e.Vel != before[i] {
			t.Errorf("entity %d velocity changed by rejected impulse", i)
		}
	}
}
