package analysis

import (
	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/sim"
)

// MeanHeights returns, per frame, the mean distance of the entities' top
// edge from the bottom of a viewport of the given height. Empty frames are
// skipped.
func MeanHeights(frames []sim.Frame, viewportHeight float64) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if len(f.Positions) == 0 {
			continue
		}
		sum := 0.0
		for _, p := range f.Positions {
			sum += viewportHeight - p.Y
		}
		out = append(out, sum/float64(len(f.Positions)))
	}
	return out
}

// Track returns the height of one entity over the frames that contain it.
func Track(frames []sim.Frame, id dynamo.EntityID, viewportHeight float64) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		for _, p := range f.Positions {
			if p.ID == id {
				out = append(out, viewportHeight-p.Y)
				break
			}
		}
	}
	return out
}
