package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/metrics"
	"github.com/san-kum/bugsim/internal/sim"
)

const (
	defaultCols     = 60
	defaultRows     = 20
	historyCapacity = 300
	effectTicks     = 45
	headingTicks    = 10
	statsWidth      = 48
)

// TickMsg is one frame signal from the terminal's tick source. Each resume
// starts a new generation and ticks from older generations are dropped.
type TickMsg struct {
	Time time.Time
	gen  int
}

type effect struct {
	bounds sim.Rect
	ttl    int
}

// Model renders a scheduler in the terminal and forwards key presses to its
// control surface. Ticks are requested only while the scheduler runs.
type Model struct {
	sched         *sim.Scheduler
	impulse       float64
	frameDelay    time.Duration
	canvas        *Canvas
	energyHistory []float64
	effects       []effect
	message       string
	alert         bool
	title         string
	headings      bool
	gen           int
}

func NewModel(s *sim.Scheduler, impulse float64, fps int, title string) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		sched:         s,
		impulse:       impulse,
		frameDelay:    time.Second / time.Duration(fps),
		canvas:        NewCanvas(defaultCols, defaultRows),
		energyHistory: make([]float64, 0, historyCapacity),
		title:         title,
		headings:      true,
	}
}

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.frameDelay, func(t time.Time) tea.Msg { return TickMsg{Time: t, gen: gen} })
}

func (m Model) Init() tea.Cmd {
	if !m.sched.Running() {
		return nil
	}
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if msg.gen != m.gen || !m.sched.OnTick() {
			return m, nil
		}
		m.record()
		return m, m.tick()

	case tea.WindowSizeMsg:
		cols := msg.Width - statsWidth - 4
		rows := msg.Height - 4
		if cols > 10 && rows > 5 {
			m.canvas = NewCanvas(cols, rows)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message, m.alert = "", false

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		if m.sched.TogglePause() {
			m.gen++
			return m, m.tick()
		}
	case "v":
		m.headings = !m.headings
	case "g":
		if m.sched.ToggleGravity() {
			m.message = "gravity on"
		} else {
			m.message = "gravity off"
		}
	case "i":
		if err := m.sched.ApplyRandomImpulse(m.impulse); err != nil {
			m.message, m.alert = err.Error(), true
		} else {
			m.message = "spin!"
		}
	case "s":
		id, err := m.sched.SpawnEntity()
		if err != nil {
			m.message, m.alert = err.Error(), true
		} else {
			m.message = fmt.Sprintf("spawned bug #%d", id)
		}
	case "x":
		ev, err := m.sched.RemoveRandomEntity()
		switch {
		case errors.Is(err, dynamo.ErrNoEntitiesAvailable):
			m.message, m.alert = "no more bugs to explode! you monster :(", true
		case err != nil:
			m.message, m.alert = err.Error(), true
		default:
			m.effects = append(m.effects, effect{bounds: ev.Bounds, ttl: effectTicks})
			m.message = fmt.Sprintf("bug #%d exploded", ev.ID)
		}
	}
	return m, nil
}

func (m *Model) record() {
	if len(m.energyHistory) >= historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	m.energyHistory = append(m.energyHistory, metrics.TotalKinetic(m.sched.World()))

	live := m.effects[:0]
	for _, e := range m.effects {
		e.ttl--
		if e.ttl > 0 {
			live = append(live, e)
		}
	}
	m.effects = live
}

// projection returns the per-axis factors mapping world units onto dots.
func projection(c *Canvas, b dynamo.Bounds) (sx, sy float64) {
	return float64(c.SubWidth()-1) / b.Width, float64(c.SubHeight()-1) / b.Height
}

// RenderFrame clears c and outlines every bug of a stored frame. Positions
// are top-left corners of boxes of the given radius.
func RenderFrame(c *Canvas, f sim.Frame, b dynamo.Bounds, radius float64) {
	c.Clear()
	sx, sy := projection(c, b)
	for _, p := range f.Positions {
		c.DrawEllipse((p.X+radius)*sx, (p.Y+radius)*sy, radius*sx, radius*sy)
	}
}

func (m Model) draw() {
	c := m.canvas
	c.Clear()
	sx, sy := projection(c, m.sched.World().Bounds())

	for _, e := range m.sched.World().Entities() {
		center := e.Center()
		c.DrawEllipse(center.X*sx, center.Y*sy, e.Radius*sx, e.Radius*sy)
		if m.headings {
			tip := center.Add(e.Vel.Scale(headingTicks))
			c.DrawLine(center.X*sx, center.Y*sy, tip.X*sx, tip.Y*sy)
		}
	}

	for _, fx := range m.effects {
		grow := 1 - float64(fx.ttl)/effectTicks
		cx := (fx.bounds.X + fx.bounds.W/2) * sx
		cy := (fx.bounds.Y + fx.bounds.H/2) * sy
		c.DrawEllipse(cx, cy, fx.bounds.W/2*sx*grow, fx.bounds.H/2*sy*grow)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	if m.sched.Running() {
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	w := m.sched.World()
	gravity := "off"
	if w.Params().Gravity {
		gravity = "on"
	}
	st := m.sched.Stats()
	s.WriteString(row("Tick", fmt.Sprintf("%d", m.sched.Tick())))
	s.WriteString(row("Bugs", fmt.Sprintf("%d", w.Len())))
	s.WriteString(row("Gravity", gravity))
	s.WriteString(row("Collisions", fmt.Sprintf("%d", st.Resolved)))
	if n := len(m.energyHistory); n > 0 {
		s.WriteString(row("Energy", fmt.Sprintf("%.2f", m.energyHistory[n-1])))
	}

	if m.message != "" {
		msg := valueStyle.Render(m.message)
		if m.alert {
			msg = alertStyle.Render(m.message)
		}
		s.WriteString("\n" + msg + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause G:Gravity I:Spin\nS:Spawn  X:Explode V:Heading\nQ:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

// Run starts the live view and blocks until the user quits.
func Run(s *sim.Scheduler, impulse float64, fps int, title string) error {
	p := tea.NewProgram(NewModel(s, impulse, fps, title), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
