package viz

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/labsim/internal/config"
	"github.com/san-kum/labsim/internal/dynamo"
	"github.com/san-kum/labsim/internal/experiment"
)

var demoInfo = map[string]string{
	"pendulum":  "damped swinging bob",
	"capillary": "meniscus in a glass tube",
	"wave":      "radial ripples on a plane",
}

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuValue  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true)
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// menu picks a demo, tunes its parameters and then hands over to Model.
type menu struct {
	state       int
	cursor      int
	registry    *experiment.Registry
	cfg         *config.Config
	demos       []string
	selected    string
	scene       dynamo.Scene
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string
	err         error
	liveModel   Model
}

func NewInteractiveApp(cfg *config.Config) *menu {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	r := experiment.NewRegistry()
	return &menu{
		state:    stateMenu,
		registry: r,
		cfg:      cfg,
		demos:    r.ListScenes(),
	}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m menu) handleKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m menu) menuKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.demos)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.demos[m.cursor]
		scene, err := m.registry.GetScene(m.selected, m.cfg)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.scene, m.err = scene, nil
		m.state, m.paramCursor = stateConfig, 0
		m.paramNames = m.paramNames[:0]
		if c, ok := scene.(dynamo.Configurable); ok {
			for k := range c.GetParams() {
				m.paramNames = append(m.paramNames, k)
			}
			sort.Strings(m.paramNames)
		}
	}
	return m, nil
}

func (m menu) configKey(msg tea.KeyMsg) (menu, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.setParam(val)
			} else {
				m.err = err
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		if len(m.paramNames) > 0 {
			m.editing, m.editBuf = true, fmt.Sprintf("%.2f", m.value(m.paramNames[m.paramCursor]))
		}
	case "s":
		m.liveModel = NewModel(m.selected, m.scene)
		m.state = stateSim
		return m, m.liveModel.Init()
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	}
	return m, nil
}

func (m *menu) value(name string) float64 {
	if c, ok := m.scene.(dynamo.Configurable); ok {
		return c.GetParams()[name]
	}
	return 0
}

func (m *menu) nudge(dir float64) {
	if len(m.paramNames) == 0 {
		return
	}
	name := m.paramNames[m.paramCursor]
	step := 0.1
	if b, ok := config.ParamBoundsByDemo[m.selected][name]; ok {
		step = (b.Max - b.Min) / paramSteps
	}
	if name == "points" {
		step = 1
	}
	m.setParam(m.value(name) + dir*step)
}

func (m *menu) setParam(val float64) {
	c, ok := m.scene.(dynamo.Configurable)
	if !ok || len(m.paramNames) == 0 {
		return
	}
	name := m.paramNames[m.paramCursor]
	m.err = c.SetParam(name, config.ClampParam(m.selected, name, val))
}

func (m menu) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m menu) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("LABSIM") + "\n    " + menuSub.Render("classroom physics demos") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.demos {
		desc := demoInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-12s", name)), menuValue.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-12s", name)), menuSub.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m menu) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(m.selected)) + "\n    " + menuSub.Render(demoInfo[m.selected]) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.paramNames {
		valStr := fmt.Sprintf("%8.3f", m.value(name))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-14s", name)), menuValue.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-14s", name)), menuSub.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the demo picker.
func RunInteractive(cfg *config.Config) error {
	_, err := tea.NewProgram(NewInteractiveApp(cfg), tea.WithAltScreen()).Run()
	return err
}
