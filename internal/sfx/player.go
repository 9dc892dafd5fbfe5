package sfx

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/san-kum/bugsim/internal/sim"
)

// Player mixes explosion sounds into the system speaker.
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	rng     *rand.Rand
	volume  float64
	started bool
	played  int
}

func NewPlayer(volume float64, seed int64) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		rng:    rand.New(rand.NewSource(seed)),
		volume: volume,
	}
}

// Start opens the speaker. Events received before Start are counted but
// not played.
func (p *Player) Start() error {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(p.mixer)

	p.mu.Lock()
	p.started = true
	p.mu.Unlock()
	return nil
}

func (p *Player) OnRemoval(ev sim.RemovalEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.played++
	if !p.started {
		return
	}
	s := Explosion(SampleRate, p.rng, p.volume)
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Played returns the number of removal events received.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}
