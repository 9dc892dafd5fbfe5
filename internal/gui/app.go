// Package gui runs the bug world in a raylib window. The window's frame loop
// is the tick source.
package gui

import (
	"errors"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/metrics"
	"github.com/san-kum/bugsim/internal/sim"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColAlert   = rl.NewColor(255, 80, 80, 255)
)

const (
	maxTelemetry = 200
	effectFrames = 45
	messageTTL   = 120
	hudHeight    = 90
)

type effect struct {
	bounds sim.Rect
	ttl    int
}

type App struct {
	sched   *sim.Scheduler
	impulse float64
	width   int32
	height  int32

	Telemetry []float64
	effects   []effect
	message   string
	alert     bool
	msgTTL    int
	quit      bool
}

func NewApp(s *sim.Scheduler, impulse float64) *App {
	b := s.World().Bounds()
	return &App{
		sched:     s,
		impulse:   impulse,
		width:     int32(math.Ceil(b.Width)),
		height:    int32(math.Ceil(b.Height)),
		Telemetry: make([]float64, 0, maxTelemetry),
	}
}

// Run opens a window sized to the viewport plus the HUD strip and blocks
// until it is closed.
func Run(s *sim.Scheduler, impulse float64, fps int) {
	app := NewApp(s, impulse)

	rl.InitWindow(app.width, app.height+hudHeight, "bugsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)

	app.RunLoop()
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyP) {
		a.sched.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		if a.sched.ToggleGravity() {
			a.say("gravity on", false)
		} else {
			a.say("gravity off", false)
		}
	}
	if rl.IsKeyPressed(rl.KeyI) {
		if err := a.sched.ApplyRandomImpulse(a.impulse); err != nil {
			a.say(err.Error(), true)
		}
	}
	if rl.IsKeyPressed(rl.KeyS) {
		if _, err := a.sched.SpawnEntity(); err != nil {
			a.say(err.Error(), true)
		}
	}
	if rl.IsKeyPressed(rl.KeyX) {
		ev, err := a.sched.RemoveRandomEntity()
		switch {
		case errors.Is(err, dynamo.ErrNoEntitiesAvailable):
			a.say("no more bugs to explode! you monster :(", true)
		case err != nil:
			a.say(err.Error(), true)
		default:
			a.effects = append(a.effects, effect{bounds: ev.Bounds, ttl: effectFrames})
		}
	}

	if a.msgTTL > 0 {
		a.msgTTL--
	}

	if !a.sched.OnTick() {
		return
	}

	if len(a.Telemetry) >= maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	a.Telemetry = append(a.Telemetry, metrics.TotalKinetic(a.sched.World()))

	live := a.effects[:0]
	for _, e := range a.effects {
		e.ttl--
		if e.ttl > 0 {
			live = append(live, e)
		}
	}
	a.effects = live
}

func (a *App) say(msg string, alert bool) {
	a.message, a.alert, a.msgTTL = msg, alert, messageTTL
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawWorld()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	top := a.height
	rl.DrawLine(0, top, a.width, top, ColTextDim)

	w := a.sched.World()
	status, col := "RUNNING", ColSelect
	if !a.sched.Running() {
		status, col = "PAUSED", ColTextDim
	}
	gravity := "off"
	if w.Params().Gravity {
		gravity = "on"
	}

	rl.DrawText("bugsim", 20, top+12, 20, ColSelect)
	rl.DrawText(status, a.width-110, top+14, 16, col)
	rl.DrawText(fmt.Sprintf("bugs %d   gravity %s   tick %d", w.Len(), gravity, a.sched.Tick()), 20, top+40, 14, ColText)
	rl.DrawText("[SPACE] PAUSE  [G] GRAVITY  [I] SPIN  [S] SPAWN  [X] EXPLODE  [Q] QUIT", 20, top+64, 12, ColTextDim)

	if a.msgTTL > 0 {
		c := ColAccent
		if a.alert {
			c = ColAlert
		}
		rl.DrawText(a.message, 20, 20, 16, rl.Fade(c, float32(a.msgTTL)/messageTTL))
	}

	a.DrawTelemetry(a.width-260, top+36, 240, 44)
}

// drawWorld outlines each bug, brighter the faster it moves, and the
// expanding rings of recent explosions.
func (a *App) drawWorld() {
	for _, e := range a.sched.World().Entities() {
		c := e.Center()
		shade := uint8(math.Min(100+e.Vel.Len()*40, 255))
		rl.DrawCircleLines(int32(c.X), int32(c.Y), float32(e.Radius), rl.NewColor(shade, shade, shade, 255))
	}

	for _, fx := range a.effects {
		progress := 1 - float32(fx.ttl)/effectFrames
		cx := int32(fx.bounds.X + fx.bounds.W/2)
		cy := int32(fx.bounds.Y + fx.bounds.H/2)
		r := float32(fx.bounds.W/2) * progress
		rl.DrawCircleLines(cx, cy, r, rl.Fade(ColAlert, 1-progress))
		rl.DrawCircleLines(cx, cy, r*0.6, rl.Fade(ColSelect, 1-progress))
	}
}

func (a *App) DrawTelemetry(x, y, width, height int32) {
	if len(a.Telemetry) < 2 {
		return
	}

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(x) + float32(i)/float32(len(a.Telemetry))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(y+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("E %.2f", a.Telemetry[len(a.Telemetry)-1]), x, y-14, 12, ColText)
}
