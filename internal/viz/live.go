package viz

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dangle/internal/config"
	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/physics"
	"github.com/san-kum/dangle/internal/sim"
)

const (
	width           = 72
	height          = 22
	historyCapacity = 300
	frameInterval   = time.Second / 60
)

type TickMsg time.Time

// ReloadMsg asks the view to reload its scene.
type ReloadMsg struct{ Path string }

// WatchErrMsg carries a watcher failure.
type WatchErrMsg struct{ Err error }

// Loader produces the scene to show. It is called again on every reload.
type Loader func() (*config.Scene, error)

// Model is the live view of one scene.
type Model struct {
	load    Loader
	watcher *Watcher

	scene *config.Scene
	sim   *sim.Simulator
	view  Viewport

	canvas   *Canvas
	running  bool
	driver   int
	offset   int
	offsets  []string
	history  [][]float64 // per driver, output x
	status   string
	showHelp bool
}

// NewModel loads the scene and builds the view. watcher may be nil.
func NewModel(load Loader, watcher *Watcher) (Model, error) {
	m := Model{
		load:    load,
		watcher: watcher,
		canvas:  NewCanvas(width, height),
		running: true,
		offsets: physics.OffsetNames(),
	}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// reload swaps in a freshly loaded scene. On failure the current scene
// keeps running.
func (m *Model) reload() error {
	scene, err := m.load()
	if err != nil {
		return err
	}
	pup, pass, err := scene.Build()
	if err != nil {
		return err
	}

	m.scene = scene
	m.sim = sim.New(pup, pass)
	m.history = make([][]float64, len(pass.Drivers))
	m.driver = min(m.driver, max(len(pass.Drivers)-1, 0))
	m.view = fitViewport(scene)
	m.draw()
	return nil
}

// fitViewport bounds every node over the scene's duration, padded by the
// longest driver.
func fitViewport(scene *config.Scene) Viewport {
	margin := 10.0
	for _, d := range scene.Drivers {
		margin = max(margin, d.Props.Length*1.5)
	}

	pup, _, err := scene.Build()
	if err != nil {
		return Viewport{Max: dynamo.Vec2{1, 1}}
	}
	var v Viewport
	first := true
	const samples = 64
	for i := 0; i <= samples; i++ {
		pup.SetTime(scene.Duration * float64(i) / samples)
		for _, n := range pup.Nodes() {
			a, ok := pup.Anchor(n, false)
			if !ok {
				continue
			}
			if first {
				v = Viewport{Min: a, Max: a}
				first = false
			}
			v.Grow(a, margin)
		}
	}
	return v
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// waitForChange blocks on the watcher and turns its next event into a msg.
func waitForChange(w *Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			return ReloadMsg{Path: path}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return WatchErrMsg{Err: err}
		}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForChange(m.watcher))
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "tab":
			m.cycleDriver()
		case "o":
			m.offset = (m.offset + 1) % len(m.offsets)
		case "up", "k":
			m.adjustOffset(1.05)
		case "down", "j":
			m.adjustOffset(0.95)
		case "0":
			m.sim.Pass().ResetOffsets()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	case ReloadMsg:
		if err := m.reload(); err != nil {
			m.status = fmt.Sprintf("reload %s: %v", filepath.Base(msg.Path), err)
			log.Printf("live: %s", m.status)
		} else {
			m.status = "reloaded " + filepath.Base(msg.Path)
		}
		return m, waitForChange(m.watcher)
	case WatchErrMsg:
		m.status = "watch: " + msg.Err.Error()
		return m, waitForChange(m.watcher)
	}
	return m, nil
}

func (m *Model) cycleDriver() {
	if n := len(m.sim.Pass().Drivers); n > 0 {
		m.driver = (m.driver + 1) % n
	}
}

// selectedProps returns the props of the driver being tuned, or nil.
func (m *Model) selectedProps() *physics.Props {
	drivers := m.sim.Pass().Drivers
	if m.driver >= len(drivers) {
		return nil
	}
	return &drivers[m.driver].Props
}

func (m *Model) adjustOffset(factor float64) {
	p := m.selectedProps()
	if p == nil {
		return
	}
	name := m.offsets[m.offset]
	if err := p.SetOffset(name, p.Offsets()[name]*factor); err != nil {
		m.status = err.Error()
	}
}

// step advances the scene by one frame and records outputs.
func (m *Model) step() {
	f, err := m.sim.Step(m.scene.Dt)
	if err != nil {
		m.status = err.Error()
		m.running = false
		return
	}
	for i, v := range f.Values {
		h := append(m.history[i], v[0])
		if len(h) > historyCapacity {
			h = h[1:]
		}
		m.history[i] = h
	}
	m.draw()
}

func (m *Model) reset() {
	m.sim.Reset()
	m.sim.Pass().ResetOffsets()
	for i := range m.history {
		m.history[i] = m.history[i][:0]
	}
	m.status = ""
	m.draw()
}

// draw renders nodes as dots and every world-space driver as a line from
// its anchor to its bob.
func (m *Model) draw() {
	m.canvas.Clear()
	dw, dh := m.canvas.Dots()
	pup := m.sim.Puppet()

	for _, n := range pup.Nodes() {
		if a, ok := pup.Anchor(n, false); ok {
			x, y := m.view.Project(a, dw, dh)
			m.canvas.DrawBox(x, y, 1)
		}
	}
	for _, d := range m.sim.Pass().Drivers {
		if d.LocalOnly {
			continue
		}
		bob := d.System.Bob()
		if !dynamo.Finite(bob) || bob == (dynamo.Vec2{}) {
			continue
		}
		x0, y0 := m.view.Project(d.Anchor, dw, dh)
		x1, y1 := m.view.Project(bob, dw, dh)
		m.canvas.DrawLine(x0, y0, x1, y1)
		m.canvas.DrawBox(x1, y1, 1)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	p := newPalette(CurrentTheme)
	var s strings.Builder

	s.WriteString(p.header.Render(strings.ToUpper(m.scene.Name)) + "\n")
	if m.running {
		s.WriteString(p.running.Render("RUNNING"))
	} else {
		s.WriteString(p.paused.Render("PAUSED"))
	}
	s.WriteString("  " + p.value.Render(fmt.Sprintf("t=%.2fs", m.sim.Time())) + "\n\n")

	drivers := m.sim.Pass().Drivers
	if len(drivers) == 0 {
		s.WriteString(p.label.Render("(no drivers)") + "\n")
	}
	for i, d := range drivers {
		line := fmt.Sprintf("%-12s %s (%+.3f, %+.3f)", d.Param, d.System.Kind(), d.Output[0], d.Output[1])
		if i == m.driver {
			s.WriteString(p.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + p.value.Render(line) + "\n")
		}
		s.WriteString("  " + p.SparklineChart(m.history[i], 40) + "\n")
	}

	if m.driver < len(m.history) && len(m.history[m.driver]) > 1 {
		chart := asciigraph.Plot(m.history[m.driver], asciigraph.Height(5), asciigraph.Width(36),
			asciigraph.Caption(string(drivers[m.driver].Param)+".x"))
		s.WriteString(p.graph.Render(chart) + "\n")
	}

	if props := m.selectedProps(); props != nil {
		s.WriteString("\nOFFSETS\n")
		offsets := props.Offsets()
		for i, name := range m.offsets {
			line := fmt.Sprintf("%-15s %s %.2f", name, OffsetBar(offsets[name], 10), offsets[name])
			if i == m.offset {
				s.WriteString(p.active.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + p.label.Render(line) + "\n")
			}
		}
	}

	if m.status != "" {
		s.WriteString("\n" + p.errText.Render(m.status) + "\n")
	}
	s.WriteString(p.help.Render("SP:Pause .:Step R:Reset Q:Quit\nTab:Driver O:Offset ↑↓:Tune 0:Clear\nT:Theme ?:Help"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, p.canvas.Render(m.canvas.String()), p.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + body
	}
	return body
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  .        - Single step (paused)     ║
║  R        - Reset scene and offsets  ║
║  Q        - Quit                     ║
║  Tab      - Select next driver       ║
║  O        - Select next offset       ║
║  Up/K     - Increase offset (+5%)    ║
║  Down/J   - Decrease offset (-5%)    ║
║  0        - Clear all offsets        ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view and blocks until the user quits.
func Run(load Loader, watcher *Watcher) error {
	m, err := NewModel(load, watcher)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
