// Package optim sweeps world parameters over a grid and ranks the runs by
// one metric.
package optim

import (
	"context"
	"fmt"
	"math"
)

// RunFunc runs one world with the given parameter values and returns its
// metrics.
type RunFunc func(ctx context.Context, params map[string]float64) (map[string]float64, error)

type Trial struct {
	Params  map[string]float64
	Metrics map[string]float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize ranks higher metric values first. The default is to minimize.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Size is the number of runs a full search takes.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every grid point and returns the best trial by metricName
// along with all trials in grid order.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, metricName string) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}
	if g.Size() == 0 {
		return Trial{}, nil, fmt.Errorf("optim: empty grid")
	}

	trials := make([]Trial, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), run, &trials); err != nil {
		return Trial{}, trials, err
	}

	best := -1
	bestVal := math.Inf(1)
	if g.maximize {
		bestVal = math.Inf(-1)
	}
	for i, tr := range trials {
		val, ok := tr.Metrics[metricName]
		if !ok {
			return Trial{}, trials, fmt.Errorf("optim: metric %q not reported", metricName)
		}
		if (g.maximize && val > bestVal) || (!g.maximize && val < bestVal) {
			best, bestVal = i, val
		}
	}
	if best < 0 {
		return Trial{}, trials, fmt.Errorf("optim: no finite value for %q", metricName)
	}
	return trials[best], trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run RunFunc,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		metrics, err := run(ctx, current)
		if err != nil {
			return fmt.Errorf("optim: run %v: %w", current, err)
		}
		*trials = append(*trials, Trial{Params: current, Metrics: metrics})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, run, trials); err != nil {
			return err
		}
	}
	return nil
}
