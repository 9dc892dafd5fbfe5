package metrics

import (
	"github.com/san-kum/bugsim/internal/dynamo"
)

// Momentum tracks the magnitude of the total linear momentum at the last
// observed tick.
type Momentum struct {
	name    string
	value   float64
	samples int
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(w *dynamo.World, tick uint64) {
	var p dynamo.Vec2
	for _, e := range w.Entities() {
		p = p.Add(e.Momentum())
	}
	m.value = p.Len()
	m.samples++
}

func (m *Momentum) Value() float64 { return m.value }

func (m *Momentum) Reset() {
	m.value = 0
	m.samples = 0
}
