package sim

import (
	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/physics"
)

// State is the scheduler's run state.
type State int

const (
	Running State = iota
	Paused
)

func (s State) String() string {
	if s == Paused {
		return "paused"
	}
	return "running"
}

// Position is the rendered location of one entity.
type Position struct {
	ID   dynamo.EntityID
	X, Y float64
}

// Frame is published after every completed tick.
type Frame struct {
	Tick      uint64
	Positions []Position
	Stats     physics.Stats
	WallHits  int
}

type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Rect struct {
	X, Y, W, H float64
}

// Scale returns r grown by factor around its center.
func (r Rect) Scale(factor float64) Rect {
	w, h := r.W*factor, r.H*factor
	return Rect{
		X: r.X + (r.W-w)/2,
		Y: r.Y + (r.H-h)/2,
		W: w,
		H: h,
	}
}

// RemovalEvent is emitted when an entity is removed at random, for
// collaborators that play a cosmetic effect. Bounds is the last known entity
// box enlarged by ExplosionScale around its center.
type RemovalEvent struct {
	ID     dynamo.EntityID
	Tick   uint64
	Bounds Rect
}

// Command is a control operation queued from outside the tick loop.
type Command func(s *Scheduler) error

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	Stats      physics.Stats
	WallHits   int
	StepsTaken int
	Errors     []error
}
