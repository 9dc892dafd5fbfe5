package metrics

import (
	"github.com/san-kum/bugsim/internal/dynamo"
)

// Containment is the fraction of observed ticks on which every entity was
// inside the viewport with a finite velocity.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(w *dynamo.World, tick uint64) {
	c.samples++
	b := w.Bounds()
	for _, e := range w.Entities() {
		if !b.Contains(e) || !e.Vel.IsFinite() {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Defaults returns the metrics attached to every run.
func Defaults() []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(),
		NewMomentum(),
		NewContainment(),
	}
}
