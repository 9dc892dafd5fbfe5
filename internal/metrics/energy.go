package metrics

import (
	"github.com/san-kum/bugsim/internal/dynamo"
)

// Energy reports the mean total kinetic energy over the observed ticks.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *dynamo.World, tick uint64) {
	e.totalEnergy += TotalKinetic(w)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

func TotalKinetic(w *dynamo.World) float64 {
	total := 0.0
	for _, ent := range w.Entities() {
		total += ent.KineticEnergy()
	}
	return total
}
