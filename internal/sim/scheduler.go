package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/integrators"
	"github.com/san-kum/bugsim/internal/lifecycle"
	"github.com/san-kum/bugsim/internal/physics"
	"go.uber.org/zap"
)

const DefaultQueueSize = 64

// ExplosionScale is how far removal event bounds extend past the entity box.
const ExplosionScale = 1.5

// framePrealloc caps the frame buffer reserved up front by Run.
const framePrealloc = 4096

// ErrQueueClosed is returned by Submit after Close.
var ErrQueueClosed = errors.New("sim: command queue closed")

// Scheduler owns the world and drives the per-tick pipeline:
// integrate, resolve walls, resolve pairs, contain. It is a two-state machine
// (Running, Paused) fed by an external tick source.
type Scheduler struct {
	world      *dynamo.World
	lc         *lifecycle.Lifecycle
	integrator dynamo.Integrator
	pairs      *physics.PairCollider
	log        *zap.Logger

	state     State
	tick      uint64
	queue     chan Command
	closed    chan struct{}
	closeOnce sync.Once
	stats     physics.Stats
	wallHits  int
	errs      []error

	observers []Observer
	metrics   []dynamo.Metric
	removals  []func(RemovalEvent)
}

type Option func(*Scheduler)

func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

func WithIntegrator(integ dynamo.Integrator) Option {
	return func(s *Scheduler) { s.integrator = integ }
}

func WithQueueSize(n int) Option {
	return func(s *Scheduler) { s.queue = make(chan Command, n) }
}

func New(w *dynamo.World, lc *lifecycle.Lifecycle, opts ...Option) *Scheduler {
	s := &Scheduler{
		world:      w,
		lc:         lc,
		integrator: integrators.NewEuler(),
		pairs:      physics.NewPairCollider(w.Params().Restitution),
		log:        zap.NewNop(),
		state:      Running,
		queue:      make(chan Command, DefaultQueueSize),
		closed:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) World() *dynamo.World { return s.world }
func (s *Scheduler) State() State         { return s.state }
func (s *Scheduler) Running() bool        { return s.state == Running }
func (s *Scheduler) Tick() uint64         { return s.tick }
func (s *Scheduler) Stats() physics.Stats { return s.stats }

func (s *Scheduler) AddObserver(o Observer)          { s.observers = append(s.observers, o) }
func (s *Scheduler) AddMetric(m dynamo.Metric)       { s.metrics = append(s.metrics, m) }
func (s *Scheduler) OnRemoval(fn func(RemovalEvent)) { s.removals = append(s.removals, fn) }

// OnTick handles one signal from the tick source. It reports whether the
// caller should request the next tick, which is false while paused.
func (s *Scheduler) OnTick() bool {
	if s.state != Running {
		return false
	}
	s.drain()
	s.step()
	return true
}

func (s *Scheduler) step() {
	b := s.world.Bounds()
	p := s.world.Params()
	entities := s.world.Entities()

	hits := 0
	for _, e := range entities {
		s.integrator.Step(e, p)
	}
	for _, e := range entities {
		if physics.ResolveWalls(e, b) {
			hits++
		}
	}
	st := s.pairs.Resolve(entities)
	for _, e := range entities {
		physics.Contain(e, b)
	}

	s.tick++
	s.stats.Add(st)
	s.wallHits += hits

	if st.Resolved > 0 {
		s.log.Debug("pairs resolved",
			zap.Uint64("tick", s.tick),
			zap.Int("resolved", st.Resolved),
			zap.Int("checked", st.Checked))
	}

	f := s.Frame()
	f.Stats = st
	f.WallHits = hits
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	for _, m := range s.metrics {
		m.Observe(s.world, s.tick)
	}
}

// Frame returns the current positions of every live entity.
func (s *Scheduler) Frame() Frame {
	entities := s.world.Entities()
	f := Frame{Tick: s.tick, Positions: make([]Position, len(entities))}
	for i, e := range entities {
		f.Positions[i] = Position{ID: e.ID, X: e.Pos.X, Y: e.Pos.Y}
	}
	return f
}

// TogglePause flips between Running and Paused. It returns true when the
// scheduler resumed, in which case the caller must request the next tick.
func (s *Scheduler) TogglePause() bool {
	if s.state == Running {
		s.state = Paused
		s.log.Info("paused", zap.Uint64("tick", s.tick))
		return false
	}
	s.state = Running
	s.log.Info("resumed", zap.Uint64("tick", s.tick))
	return true
}

func (s *Scheduler) SetGravity(on bool) {
	s.world.SetGravity(on)
	s.log.Info("gravity set", zap.Bool("enabled", on))
}

func (s *Scheduler) ToggleGravity() bool {
	on := s.world.ToggleGravity()
	s.log.Info("gravity toggled", zap.Bool("enabled", on))
	return on
}

func (s *Scheduler) ApplyRandomImpulse(magnitude float64) error {
	if err := s.lc.ApplyRandomImpulse(s.world, magnitude); err != nil {
		return err
	}
	s.log.Info("random impulse", zap.Float64("magnitude", magnitude), zap.Int("entities", s.world.Len()))
	return nil
}

func (s *Scheduler) SpawnEntity() (dynamo.EntityID, error) {
	id, err := s.lc.Spawn(s.world)
	if err != nil {
		return 0, err
	}
	s.log.Info("spawned", zap.Uint64("id", uint64(id)), zap.Int("entities", s.world.Len()))
	return id, nil
}

func (s *Scheduler) RemoveEntity(id dynamo.EntityID) error {
	if _, err := s.lc.Remove(s.world, id); err != nil {
		return err
	}
	s.log.Info("removed", zap.Uint64("id", uint64(id)))
	return nil
}

// RemoveRandomEntity removes one entity chosen at random and notifies
// removal subscribers with its last known bounds.
func (s *Scheduler) RemoveRandomEntity() (RemovalEvent, error) {
	e, err := s.lc.RemoveRandom(s.world)
	if err != nil {
		return RemovalEvent{}, err
	}
	ev := RemovalEvent{
		ID:     e.ID,
		Tick:   s.tick,
		Bounds: Rect{X: e.Pos.X, Y: e.Pos.Y, W: e.Diameter(), H: e.Diameter()}.Scale(ExplosionScale),
	}
	s.log.Info("removed at random", zap.Uint64("id", uint64(e.ID)), zap.Int("entities", s.world.Len()))
	for _, fn := range s.removals {
		fn(ev)
	}
	return ev, nil
}

// Submit queues cmd from outside the tick loop. It is applied at the start
// of the next running tick, never mid-step.
func (s *Scheduler) Submit(ctx context.Context, cmd Command) error {
	select {
	case <-s.closed:
		return ErrQueueClosed
	default:
	}
	select {
	case s.queue <- cmd:
		return nil
	case <-s.closed:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting submitted commands. Commands already queued are
// still applied on the next tick.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *Scheduler) drain() {
	for {
		select {
		case cmd := <-s.queue:
			if err := cmd(s); err != nil {
				s.errs = append(s.errs, err)
				s.log.Warn("command failed", zap.Uint64("tick", s.tick), zap.Error(err))
			}
		default:
			return
		}
	}
}

// Errors returns the errors of failed queued commands.
func (s *Scheduler) Errors() []error { return s.errs }

// Run drives the scheduler for up to ticks ticks from an internal tick
// source, stopping early on cancellation or when paused.
func (s *Scheduler) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive, got %d", dynamo.ErrInvalidConfiguration, ticks)
	}

	result := &Result{
		Frames:  make([]Frame, 0, min(ticks, framePrealloc)+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	rec := ObserverFunc(func(f Frame) { result.Frames = append(result.Frames, f) })
	s.observers = append(s.observers, rec)
	defer func() { s.observers = s.observers[:len(s.observers)-1] }()

	result.Frames = append(result.Frames, s.Frame())
	startStats, startHits, startErrs := s.stats, s.wallHits, len(s.errs)

	var runErr error
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil || !s.OnTick() {
			break
		}
		result.StepsTaken++
	}

	result.Stats = physics.Stats{
		Checked:    s.stats.Checked - startStats.Checked,
		Resolved:   s.stats.Resolved - startStats.Resolved,
		Separating: s.stats.Separating - startStats.Separating,
		Degenerate: s.stats.Degenerate - startStats.Degenerate,
	}
	result.WallHits = s.wallHits - startHits
	result.Errors = append(result.Errors, s.errs[startErrs:]...)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, runErr
}
