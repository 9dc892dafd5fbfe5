package sim

import (
	"context"
	"fmt"
	"sync"
)

// Builder returns a fresh, independently owned scheduler for seed.
type Builder func(seed int64) (*Scheduler, error)

// Ensemble runs the same world setup under consecutive seeds, one goroutine
// per run. Each run owns its scheduler, so no world is shared.
type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Builder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed, in seed order.
func (e *Ensemble) Run(ctx context.Context, ticks int) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble: runs must be positive, got %d", e.numRuns)
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			s, err := e.build(seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, err)
				return
			}
			defer s.Close()

			results[idx], errs[idx] = s.Run(ctx, ticks)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
