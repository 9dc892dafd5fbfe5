// Package analysis extracts summary series from recorded frames and finds
// periodic structure in them.
//
//   - [MeanHeights]: average height above the floor for every frame
//   - [Track]: height of one entity across the frames it is alive in
//   - [Spectrum]: magnitude spectrum of a detrended series
//   - [DominantPeriod]: strongest oscillation period, in ticks
//
// # Bounce Period
//
// Under gravity a bug bounces with a roughly fixed period that shrinks as it
// loses energy to drag:
//
//	period, ok := analysis.DominantPeriod(analysis.MeanHeights(frames, 600))
package analysis
