// Package tui is the interactive terminal view: grab, drag, and throw
// the ball with the keyboard while the physics runs live.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ballsim/internal/ball"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/fsm"
	"github.com/san-kum/ballsim/internal/physics"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const (
	canvasWidth  = 72
	canvasHeight = 20
	frameRate    = 60

	// dragStep is how far one keypress moves a held ball, in world units.
	dragStep = 25.0
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model for one interactive session.
type Model struct {
	cfg      *config.Config
	machine  *fsm.Machine
	engine   *physics.Engine
	body     *ball.Body
	bounds   ball.Bounds
	detector *physics.ThrowDetector

	simTime float64
	bounces int
	paused  bool
	status  string
	trail   []point
}

type point struct{ x, y float64 }

func NewModel(cfg *config.Config) *Model {
	machine := fsm.NewMachine(fsm.Options{
		ValidateTransitions: cfg.ValidateTransitions,
		LogTransitions:      false,
		AsyncNotifications:  cfg.AsyncNotifications,
	})
	return &Model{
		cfg:      cfg,
		machine:  machine,
		engine:   physics.NewEngine(),
		body:     ball.New(cfg.Ball.X, cfg.Ball.Y, cfg.Ball.Radius, cfg.Ball.Mass),
		bounds:   ball.NewBounds(cfg.Bounds.MinX, cfg.Bounds.MinY, cfg.Bounds.MaxX, cfg.Bounds.MaxY),
		detector: physics.NewThrowDetector(physics.DefaultThrowThreshold, 0),
		trail:    make([]point, 0, 40),
	}
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if !m.paused {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.machine.Close()
		return m, tea.Quit
	case "p":
		m.paused = !m.paused
	case " ", "g":
		m.toggleGrab()
	case "r":
		if err := m.machine.Fire(fsm.TriggerReset); err == nil {
			m.body.Stop()
			m.body.SetPosition(m.cfg.Ball.X, m.cfg.Ball.Y)
			m.trail = m.trail[:0]
			m.status = "reset"
		}
	case "up", "k":
		m.drag(0, -dragStep)
	case "down", "j":
		m.drag(0, dragStep)
	case "left", "h":
		m.drag(-dragStep, 0)
	case "right", "l":
		m.drag(dragStep, 0)
	}
	return m, nil
}

func (m *Model) toggleGrab() {
	switch m.machine.State() {
	case fsm.StateHeld:
		vx, vy := m.detector.AverageVelocity()
		m.body.SetVelocity(vx, vy)
		if err := m.machine.Fire(fsm.TriggerRelease); err != nil {
			m.status = err.Error()
			return
		}
		if m.detector.IsThrow() {
			m.status = fmt.Sprintf("thrown at %.0f u/s", m.body.Speed())
		} else {
			m.status = "dropped"
		}
	default:
		if err := m.machine.Fire(fsm.TriggerGrab); err != nil {
			m.status = err.Error()
			return
		}
		m.body.Stop()
		m.detector.Reset()
		m.detector.Record(m.body.X, m.body.Y, time.Now())
		m.status = "grabbed"
	}
}

func (m *Model) drag(dx, dy float64) {
	if m.machine.State() != fsm.StateHeld {
		return
	}
	x := clamp(m.body.X+dx, m.bounds.MinX+m.body.Radius, m.bounds.MaxX-m.body.Radius)
	y := clamp(m.body.Y+dy, m.bounds.MinY+m.body.Radius, m.bounds.MaxY-m.body.Radius)
	m.body.SetPosition(x, y)
	m.detector.Record(x, y, time.Now())
}

func (m *Model) step() {
	dt := 1.0 / frameRate
	state := m.machine.State()

	res, err := m.engine.Update(m.body, dt, m.bounds, state, m.cfg)
	if err != nil {
		m.status = err.Error()
		return
	}
	if res.HitAny() {
		m.bounces++
	}
	if res.VelocityBelowThreshold && state == fsm.StateThrown {
		if err := m.machine.Fire(fsm.TriggerVelocityBelowThreshold); err == nil {
			m.body.Stop()
			m.status = "came to rest"
		}
	}
	if res.IsMoving {
		m.trail = append(m.trail, point{m.body.X, m.body.Y})
		if len(m.trail) > 40 {
			m.trail = m.trail[1:]
		}
	}
	m.simTime += dt
}

func (m *Model) View() string {
	return m.header() + "\n" + m.canvas() + m.footer()
}

func (m *Model) header() string {
	state := m.machine.State()
	var badge string
	switch state {
	case fsm.StateHeld:
		badge = yellow.Render("HELD")
	case fsm.StateThrown:
		badge = magenta.Render("THROWN")
	default:
		badge = green.Render("IDLE")
	}

	line := fmt.Sprintf("%s  %s  t=%.1fs  v=%.0f  bounces=%d",
		cyan.Render("ballsim"), badge, m.simTime, m.body.Speed(), m.bounces)
	if m.paused {
		line += "  " + red.Render("PAUSED")
	}
	if m.status != "" {
		line += "\n" + dim.Render(m.status)
	} else {
		line += "\n"
	}
	return line
}

func (m *Model) canvas() string {
	grid := make([][]rune, canvasHeight)
	for y := range grid {
		grid[y] = make([]rune, canvasWidth)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for _, p := range m.trail {
		cx, cy := m.project(p.x, p.y)
		if cx >= 0 && cx < canvasWidth && cy >= 0 && cy < canvasHeight {
			grid[cy][cx] = '·'
		}
	}
	bx, by := m.project(m.body.X, m.body.Y)
	if bx >= 0 && bx < canvasWidth && by >= 0 && by < canvasHeight {
		grid[by][bx] = '●'
	}

	out := "┌" + repeat('─', canvasWidth) + "┐\n"
	for _, row := range grid {
		out += "│" + string(row) + "│\n"
	}
	out += "└" + repeat('─', canvasWidth) + "┘\n"
	return out
}

func (m *Model) project(x, y float64) (int, int) {
	cx := int((x - m.bounds.MinX) / m.bounds.Width() * float64(canvasWidth-1))
	cy := int((y - m.bounds.MinY) / m.bounds.Height() * float64(canvasHeight-1))
	return cx, cy
}

func (m *Model) footer() string {
	return dim.Render("space grab/throw · arrows drag · r reset · p pause · q quit")
}

func repeat(c rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = c
	}
	return string(out)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run starts the interactive session and blocks until quit.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(NewModel(cfg))
	_, err := p.Run()
	return err
}
