package sim

import (
	"context"
	"errors"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/lifecycle"
	"github.com/san-kum/bugsim/internal/metrics"
)

func newScheduler(n int) *Scheduler {
	w, err := dynamo.NewWorld(dynamo.Bounds{Width: 640, Height: 480}, dynamo.DefaultParams())
	Expect(err).NotTo(HaveOccurred())
	lc := lifecycle.NewSeeded(11, lifecycle.DefaultTemplate())
	_, err = lc.Populate(w, n)
	Expect(err).NotTo(HaveOccurred())
	return New(w, lc)
}

var _ = Describe("Scheduler", func() {
	var s *Scheduler

	BeforeEach(func() {
		s = newScheduler(8)
	})

	It("starts running", func() {
		Expect(s.State()).To(Equal(Running))
		Expect(s.Running()).To(BeTrue())
	})

	It("steps and requests the next tick while running", func() {
		before := s.Frame()
		Expect(s.OnTick()).To(BeTrue())
		Expect(s.Tick()).To(Equal(uint64(1)))
		Expect(s.Frame().Positions).NotTo(Equal(before.Positions))
	})

	Context("when paused", func() {
		BeforeEach(func() {
			Expect(s.TogglePause()).To(BeFalse())
		})

		It("does nothing and does not request a tick", func() {
			before := s.Frame()
			Expect(s.OnTick()).To(BeFalse())
			Expect(s.Tick()).To(BeZero())
			Expect(s.Frame()).To(Equal(before))
		})

		It("requests a tick when resumed", func() {
			Expect(s.TogglePause()).To(BeTrue())
			Expect(s.State()).To(Equal(Running))
			Expect(s.OnTick()).To(BeTrue())
		})

		It("still accepts lifecycle operations", func() {
			_, err := s.SpawnEntity()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.World().Len()).To(Equal(9))
			Expect(s.State()).To(Equal(Paused))
		})
	})

	It("returns to the original state after two pause toggles", func() {
		s.TogglePause()
		s.TogglePause()
		Expect(s.State()).To(Equal(Running))
		Expect(s.OnTick()).To(BeTrue())
		Expect(s.OnTick()).To(BeTrue())
		Expect(s.Tick()).To(Equal(uint64(2)))
	})

	It("does not change state when gravity is toggled", func() {
		Expect(s.ToggleGravity()).To(BeFalse())
		Expect(s.World().Params().Gravity).To(BeFalse())
		Expect(s.State()).To(Equal(Running))
	})

	It("keeps every entity inside the viewport after each tick", func() {
		Expect(s.ApplyRandomImpulse(1000)).To(Succeed())
		b := s.World().Bounds()
		for i := 0; i < 500; i++ {
			s.OnTick()
			for _, e := range s.World().Entities() {
				Expect(b.Contains(e)).To(BeTrue(), "entity %d escaped at tick %d: %v", e.ID, s.Tick(), e.Pos)
				Expect(e.Vel.IsFinite()).To(BeTrue())
			}
		}
	})

	It("publishes a frame with every live entity", func() {
		var frames []Frame
		s.AddObserver(ObserverFunc(func(f Frame) { frames = append(frames, f) }))

		s.OnTick()
		s.OnTick()

		Expect(frames).To(HaveLen(2))
		Expect(frames[1].Tick).To(Equal(uint64(2)))
		Expect(frames[1].Positions).To(HaveLen(8))
		Expect(frames[1].Stats.Checked).To(Equal(28))
	})

	Describe("RemoveRandomEntity", func() {
		It("emits a removal event with the enlarged last known bounds", func() {
			var events []RemovalEvent
			s.OnRemoval(func(ev RemovalEvent) { events = append(events, ev) })
			centers := make(map[dynamo.EntityID]dynamo.Vec2)
			for _, e := range s.World().Entities() {
				centers[e.ID] = e.Center()
			}

			ev, err := s.RemoveRandomEntity()
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(ConsistOf(ev))
			Expect(ev.Bounds.W).To(Equal(50.0 * ExplosionScale))
			Expect(ev.Bounds.H).To(Equal(50.0 * ExplosionScale))
			Expect(ev.Bounds.X + ev.Bounds.W/2).To(BeNumerically("~", centers[ev.ID].X, 1e-9))
			Expect(ev.Bounds.Y + ev.Bounds.H/2).To(BeNumerically("~", centers[ev.ID].Y, 1e-9))
			Expect(s.World().Len()).To(Equal(7))
			_, ok := s.World().Lookup(ev.ID)
			Expect(ok).To(BeFalse())
		})

		It("reports NoEntitiesAvailable on an empty world", func() {
			for s.World().Len() > 0 {
				_, err := s.RemoveRandomEntity()
				Expect(err).NotTo(HaveOccurred())
			}
			called := false
			s.OnRemoval(func(RemovalEvent) { called = true })

			_, err := s.RemoveRandomEntity()
			Expect(errors.Is(err, dynamo.ErrNoEntitiesAvailable)).To(BeTrue())
			Expect(called).To(BeFalse())
		})
	})

	Describe("Submit", func() {
		It("applies queued commands at the start of the next tick", func() {
			Expect(s.Submit(context.Background(), func(s *Scheduler) error {
				_, err := s.SpawnEntity()
				return err
			})).To(Succeed())
			Expect(s.World().Len()).To(Equal(8))

			s.OnTick()
			Expect(s.World().Len()).To(Equal(9))
		})

		It("holds commands while paused", func() {
			s.TogglePause()
			Expect(s.Submit(context.Background(), func(s *Scheduler) error {
				s.ToggleGravity()
				return nil
			})).To(Succeed())

			s.OnTick()
			Expect(s.World().Params().Gravity).To(BeTrue())

			s.TogglePause()
			s.OnTick()
			Expect(s.World().Params().Gravity).To(BeFalse())
		})

		It("records failed commands", func() {
			Expect(s.Submit(context.Background(), func(s *Scheduler) error {
				return s.ApplyRandomImpulse(-1)
			})).To(Succeed())
			s.OnTick()
			Expect(s.Errors()).To(HaveLen(1))
			Expect(errors.Is(s.Errors()[0], dynamo.ErrInvalidImpulse)).To(BeTrue())
		})

		It("rejects impulses too large to keep velocities finite", func() {
			var before []dynamo.Vec2
			for _, e := range s.World().Entities() {
				before = append(before, e.Vel)
			}
			Expect(errors.Is(s.ApplyRandomImpulse(1e308), dynamo.ErrInvalidImpulse)).To(BeTrue())
			for i, e := range s.World().Entities() {
				Expect(e.Vel).To(Equal(before[i]))
			}
			for i := 0; i < 10; i++ {
				s.OnTick()
			}
			for _, e := range s.World().Entities() {
				Expect(e.Vel.IsFinite()).To(BeTrue())
				Expect(e.Pos.IsFinite()).To(BeTrue())
			}
		})

		It("survives concurrent Close calls", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					s.Close()
				}()
			}
			wg.Wait()
			err := s.Submit(context.Background(), func(*Scheduler) error { return nil })
			Expect(err).To(MatchError(ErrQueueClosed))
		})

		It("rejects commands after Close", func() {
			s.Close()
			s.Close()
			err := s.Submit(context.Background(), func(*Scheduler) error { return nil })
			Expect(err).To(MatchError(ErrQueueClosed))
		})
	})

	Describe("Run", func() {
		It("runs the requested number of ticks and reports metrics", func() {
			for _, m := range metrics.Defaults() {
				s.AddMetric(m)
			}
			res, err := s.Run(context.Background(), 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(100))
			Expect(res.Frames).To(HaveLen(101))
			Expect(res.Metrics).To(HaveKeyWithValue("containment", 1.0))
			Expect(res.Metrics).To(HaveKey("energy"))
			Expect(res.Stats.Checked).To(Equal(100 * 28))
		})

		It("stops when paused", func() {
			s.TogglePause()
			res, err := s.Run(context.Background(), 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(BeZero())
		})

		It("stops on cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Run(ctx, 10)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.StepsTaken).To(BeZero())
		})

		It("accepts an enormous tick count without reserving it", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Run(ctx, math.MaxInt)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Frames).To(HaveLen(1))
			Expect(cap(res.Frames)).To(BeNumerically("<=", framePrealloc+1))
		})

		It("rejects a non-positive tick count", func() {
			_, err := s.Run(context.Background(), 0)
			Expect(errors.Is(err, dynamo.ErrInvalidConfiguration)).To(BeTrue())
		})
	})
})
