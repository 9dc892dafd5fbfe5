// Package viz draws the bug world in a terminal using braille dots and
// drives a sim.Scheduler from a bubbletea tick loop.
package viz
