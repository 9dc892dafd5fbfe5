// Package sfx synthesises the explosion sound played when an entity is
// removed. It subscribes to removal events and never touches the world.
package sfx

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const (
	SampleRate = beep.SampleRate(44100)

	ExplosionDuration = 600 * time.Millisecond
	DefaultVolume     = 0.25
)

// noise is white noise with an exponential decay.
type noise struct {
	rng      *rand.Rand
	position int
	total    int
	decay    float64
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if n.position >= n.total {
			return i, i > 0
		}
		t := float64(n.position) / float64(n.total)
		val := (n.rng.Float64()*2 - 1) * math.Exp(-n.decay*t)
		samples[i][0] = val
		samples[i][1] = val
		n.position++
	}
	return len(samples), true
}

func (n *noise) Err() error { return nil }

// rumble is a falling low sine that gives the burst its body.
type rumble struct {
	rate     beep.SampleRate
	phase    float64
	position int
	total    int
	startHz  float64
	endHz    float64
}

func (r *rumble) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if r.position >= r.total {
			return i, i > 0
		}
		t := float64(r.position) / float64(r.total)
		freq := r.startHz + (r.endHz-r.startHz)*t
		val := math.Sin(2*math.Pi*r.phase) * (1 - t)
		samples[i][0] = val
		samples[i][1] = val

		r.phase += freq / float64(r.rate)
		r.phase -= math.Floor(r.phase)
		r.position++
	}
	return len(samples), true
}

func (r *rumble) Err() error { return nil }

// Explosion returns a finite streamer for one explosion at the given volume
// (linear, 0 mutes).
func Explosion(rate beep.SampleRate, rng *rand.Rand, volume float64) beep.Streamer {
	total := rate.N(ExplosionDuration)
	mixed := beep.Mix(
		newVolume(&noise{rng: rng, total: total, decay: 6}, 0.6),
		newVolume(&rumble{rate: rate, total: total, startHz: 90, endHz: 30}, 0.4),
	)
	return beep.Take(total, newVolume(mixed, volume))
}

// math.Log2(0) is -Inf, so zero volume is expressed as Silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
