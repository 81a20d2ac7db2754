package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/labsim/internal/config"
	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/physics"
)

const (
	width           = 60
	height          = 22
	historyCapacity = 600
	frameInterval   = time.Second / 60
	paramSteps      = 40
)

type TickMsg time.Time

// traceSample is the Samples index plotted under each demo.
var traceSample = map[string]int{
	"pendulum":  0,
	"capillary": 2,
	"wave":      1,
}

// Model renders one scene. Wall-clock time between ticks is the dt handed to
// the scene, so a stalled terminal is caught by the scene's own dt guard.
type Model struct {
	demo          string
	scene         dynamo.Scene
	frame         dynamo.Frame
	canvas        *Canvas
	running       bool
	t             float64
	lastTick      time.Time
	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int
	trace         []float64
	trail         [][2]float64
	initialLiquid physics.LiquidKind
	initialMedium string
	err           error
}

// NewModel wraps a scene built for demo.
func NewModel(demo string, scene dynamo.Scene) Model {
	params := make(map[string]float64)
	if c, ok := scene.(dynamo.Configurable); ok {
		for k, v := range c.GetParams() {
			params[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	initialParams := make(map[string]float64, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initialParams[k] = v
	}
	sort.Strings(keys)

	m := Model{
		demo:          demo,
		scene:         scene,
		frame:         scene.Tick(0),
		canvas:        NewCanvas(width, height),
		running:       true,
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
		trace:         make([]float64, 0, historyCapacity),
		trail:         make([][2]float64, 0, trailCapacity),
	}
	switch s := scene.(type) {
	case *physics.Capillary:
		m.initialLiquid = s.Params().Liquid
	case *physics.WaveField:
		m.initialMedium = s.Settings().Medium
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		case "l":
			m.cycleLiquid()
		case "m":
			m.cycleMedium()
		}
	case TickMsg:
		now := time.Time(msg)
		dt := 0.0
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		m.Advance(dt)
		return m, tick()
	}
	return m, nil
}

// Advance ticks the scene by dt unless paused.
func (m *Model) Advance(dt float64) {
	if !m.running {
		return
	}
	m.frame = m.scene.Tick(dt)
	if h, ok := dynamo.GuardDt(dt); ok {
		m.t += h
	}

	samples := m.frame.Samples()
	if idx, ok := traceSample[m.demo]; ok && idx < len(samples) {
		m.trace = appendCapped(m.trace, samples[idx], historyCapacity)
	}
	if f, ok := m.frame.(physics.PendulumFrame); ok {
		m.trail = append(m.trail, [2]float64{f.Pose.Bob.X(), f.Pose.Bob.Y()})
		if len(m.trail) > trailCapacity {
			m.trail = m.trail[1:]
		}
	}
}

func appendCapped(vals []float64, v float64, capacity int) []float64 {
	vals = append(vals, v)
	if len(vals) > capacity {
		vals = vals[1:]
	}
	return vals
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam moves the selected parameter one notch within its range.
func (m *Model) adjustParam(dir float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key]
	if b, ok := config.ParamBoundsByDemo[m.demo][key]; ok {
		val = b.Clamp(val + dir*(b.Max-b.Min)/paramSteps)
	} else {
		val *= 1 + 0.05*dir
	}
	if key == "points" {
		val = math.Round(val)
	}
	m.setParam(key, val)
}

func (m *Model) setParam(key string, val float64) {
	c, ok := m.scene.(dynamo.Configurable)
	if !ok {
		return
	}
	if err := c.SetParam(key, val); err != nil {
		m.err = err
		return
	}
	m.params = c.GetParams()
	m.err = nil
	m.frame = m.scene.Tick(0)
	if key == "length" || key == "initial_angle" {
		m.trail = m.trail[:0]
	}
}

func (m *Model) cycleLiquid() {
	c, ok := m.scene.(*physics.Capillary)
	if !ok {
		return
	}
	liquids := physics.Liquids()
	for i, l := range liquids {
		if l.Kind == c.Liquid().Kind {
			m.err = c.SetLiquid(liquids[(i+1)%len(liquids)].Kind)
			break
		}
	}
	m.frame = m.scene.Tick(0)
}

func (m *Model) cycleMedium() {
	w, ok := m.scene.(*physics.WaveField)
	if !ok {
		return
	}
	media := physics.Media()
	for i, md := range media {
		if md.Name == w.Medium().Name {
			m.err = w.SetMedium(media[(i+1)%len(media)].Name)
			break
		}
	}
	m.trace = m.trace[:0]
	m.frame = m.scene.Tick(0)
}

// reset restores the initial parameters and restarts the scene.
func (m *Model) reset() {
	if c, ok := m.scene.(dynamo.Configurable); ok {
		for _, k := range m.paramKeys {
			if err := c.SetParam(k, m.initialParams[k]); err != nil {
				m.err = err
			}
		}
		m.params = c.GetParams()
	}
	switch s := m.scene.(type) {
	case *physics.Capillary:
		m.err = s.SetLiquid(m.initialLiquid)
	case *physics.WaveField:
		m.err = s.SetMedium(m.initialMedium)
	}
	m.scene.Reset()
	m.t = 0
	m.trace = m.trace[:0]
	m.trail = m.trail[:0]
	m.frame = m.scene.Tick(0)
}

func (m *Model) draw() {
	m.canvas.Clear()
	DrawFrame(m.canvas, m.scene, m.frame, m.trail)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.demo)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.trace) > 1 {
		labels := m.scene.SampleLabels()
		caption := labels[traceSample[m.demo]]
		chart := asciigraph.Plot(m.trace, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(caption))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	labels := m.scene.SampleLabels()
	for i, v := range m.frame.Samples() {
		if i < len(labels) {
			s.WriteString(labelStyle.Render(labels[i]) + valueStyle.Render(fmt.Sprintf("%.4f", v)) + "\n")
		}
	}
	s.WriteString(m.infoView())

	s.WriteString("\n" + Separator(40) + "\n")
	if len(m.paramKeys) > 0 {
		for i, k := range m.paramKeys {
			line := fmt.Sprintf("%-13s %s %.3f", k, ProgressBar(m.paramRatio(k), 10), m.params[k])
			if i == m.selected {
				s.WriteString(activeParamStyle.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + line + "\n")
			}
		}
	} else {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}

	help := "SP:Pause R:Reset Q:Quit\nTab:Param ↑↓:Tune"
	switch m.demo {
	case "capillary":
		help += " L:Liquid"
	case "wave":
		help += " M:Medium"
	}
	s.WriteString(helpStyle.Render(help))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func (m Model) infoView() string {
	var s strings.Builder
	switch sc := m.scene.(type) {
	case *physics.Pendulum:
		s.WriteString(labelStyle.Render("period (2π√L/g)") + valueStyle.Render(fmt.Sprintf("%.3fs", sc.TheoreticalPeriod())) + "\n")
	case *physics.Capillary:
		l := sc.Liquid()
		s.WriteString(labelStyle.Render("liquid") + Swatch(l.Color) + " " + valueStyle.Render(fmt.Sprintf("%s (%s)", l.Kind, l.MeniscusType)) + "\n")
		s.WriteString(noteStyle.Render(l.Description) + "\n")
	case *physics.WaveField:
		md := sc.Medium()
		s.WriteString(labelStyle.Render("medium") + Swatch(md.Color) + " " + valueStyle.Render(fmt.Sprintf("%s ×%.1f", md.Name, md.Speed)) + "\n")
		s.WriteString(noteStyle.Render(md.Description) + "\n")
	}
	return s.String()
}

// paramRatio is where the value sits within its control range.
func (m Model) paramRatio(key string) float64 {
	b, ok := config.ParamBoundsByDemo[m.demo][key]
	if !ok || b.Max <= b.Min {
		return 0.5
	}
	return (m.params[key] - b.Min) / (b.Max - b.Min)
}

// Run starts the live view on the alternate screen.
func Run(demo string, scene dynamo.Scene) error {
	_, err := tea.NewProgram(NewModel(demo, scene), tea.WithAltScreen()).Run()
	return err
}
