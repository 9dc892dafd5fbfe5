package sim

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/lifecycle"
	"github.com/san-kum/bugsim/internal/metrics"
)

func seededBuilder(n int) Builder {
	return func(seed int64) (*Scheduler, error) {
		w, err := dynamo.NewWorld(dynamo.Bounds{Width: 640, Height: 480}, dynamo.DefaultParams())
		if err != nil {
			return nil, err
		}
		lc := lifecycle.NewSeeded(seed, lifecycle.DefaultTemplate())
		if _, err := lc.Populate(w, n); err != nil {
			return nil, err
		}
		s := New(w, lc)
		for _, m := range metrics.Defaults() {
			s.AddMetric(m)
		}
		return s, nil
	}
}

var _ = Describe("Ensemble", func() {
	It("runs one independent world per seed", func() {
		results, err := NewEnsemble(seededBuilder(5), 4, 100).Run(context.Background(), 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))
		for _, r := range results {
			Expect(r.StepsTaken).To(Equal(50))
			Expect(r.Metrics).To(HaveKey("energy"))
		}
	})

	It("is reproducible for the same seed", func() {
		a, err := NewEnsemble(seededBuilder(5), 2, 7).Run(context.Background(), 30)
		Expect(err).NotTo(HaveOccurred())
		b, err := NewEnsemble(seededBuilder(5), 2, 7).Run(context.Background(), 30)
		Expect(err).NotTo(HaveOccurred())

		Expect(a[0].Frames[30]).To(Equal(b[0].Frames[30]))
		Expect(a[1].Frames[30]).To(Equal(b[1].Frames[30]))
		Expect(a[0].Frames[0]).NotTo(Equal(a[1].Frames[0]))
	})

	It("reports build failures", func() {
		boom := errors.New("boom")
		failing := func(int64) (*Scheduler, error) { return nil, boom }

		_, err := NewEnsemble(failing, 3, 0).Run(context.Background(), 10)
		Expect(err).To(MatchError(boom))
	})

	It("rejects an empty ensemble", func() {
		_, err := NewEnsemble(seededBuilder(1), 0, 0).Run(context.Background(), 10)
		Expect(err).To(HaveOccurred())
	})
})
