package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the magnitudes of the non-negative frequency bins of the
// series after removing its mean. Bin k corresponds to k cycles over the
// whole series.
func Spectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantPeriod returns the period in ticks of the strongest non-constant
// component. ok is false when the series has no oscillation to speak of.
func DominantPeriod(series []float64) (period float64, ok bool) {
	ps := Spectrum(series)
	if len(ps) < 2 {
		return 0, false
	}

	best, bestMag := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestMag {
			best, bestMag = k, ps[k]
		}
	}
	if best == 0 || bestMag < 1e-9 {
		return 0, false
	}
	return float64(len(series)) / float64(best), true
}
