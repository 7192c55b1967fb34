package main

import (
	"fmt"
	"image"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/deckflow/pkg/deck/sim"
)

// frameMsg signals that the engine committed a new frame to the device.
type frameMsg struct{}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Press key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Press: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "press button")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Press, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Press, k.Quit},
	}
}

var (
	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	selectedStyle = cellStyle.
			BorderForeground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

// model is the Bubbletea front end for the simulated controller. It
// mirrors the device frame buffer and forwards keyboard and mouse
// interaction as button events.
type model struct {
	dev      *sim.Device
	renderer *sim.FrameRenderer
	cfg      simConfig
	app      *demoApp

	keys keyMap
	help help.Model

	cols, rows int
	sel        int
	frame      []image.Image
	mouseDown  int // index held by the mouse, -1 when none
}

func newModel(dev *sim.Device, renderer *sim.FrameRenderer, cfg simConfig, app *demoApp) model {
	cols, rows := dev.Layout()
	return model{
		dev:       dev,
		renderer:  renderer,
		cfg:       cfg,
		app:       app,
		keys:      defaultKeyMap(),
		help:      help.New(),
		cols:      cols,
		rows:      rows,
		frame:     dev.Snapshot(),
		mouseDown: -1,
	}
}

func (m model) Init() tea.Cmd {
	return waitForFrame(m.dev)
}

func waitForFrame(dev *sim.Device) tea.Cmd {
	return func() tea.Msg {
		<-dev.Frames()
		return frameMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = m.dev.Snapshot()
		return m, waitForFrame(m.dev)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.sel >= m.cols {
				m.sel -= m.cols
			}
		case key.Matches(msg, m.keys.Down):
			if m.sel+m.cols < m.cols*m.rows {
				m.sel += m.cols
			}
		case key.Matches(msg, m.keys.Left):
			if m.sel%m.cols > 0 {
				m.sel--
			}
		case key.Matches(msg, m.keys.Right):
			if m.sel%m.cols < m.cols-1 {
				m.sel++
			}
		case key.Matches(msg, m.keys.Press):
			m.dev.Tap(m.sel)
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg), nil
	}
	return m, nil
}

func (m model) updateMouse(msg tea.MouseMsg) model {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		for i := 0; i < m.cols*m.rows; i++ {
			if z := zone.Get(cellZoneID(i)); z != nil && z.InBounds(msg) {
				m.sel = i
				m.mouseDown = i
				m.dev.Press(i)
				break
			}
		}
	case tea.MouseActionRelease:
		// Release pairs with the pressed cell even if the pointer
		// drifted off it, matching hardware button semantics.
		if m.mouseDown >= 0 {
			m.dev.Release(m.mouseDown)
			m.mouseDown = -1
		}
	}
	return m
}

func cellZoneID(index int) string {
	return fmt.Sprintf("cell-%d", index)
}

func (m model) View() string {
	rows := make([]string, 0, m.rows)
	for y := 0; y < m.rows; y++ {
		cells := make([]string, 0, m.cols)
		for x := 0; x < m.cols; x++ {
			i := y*m.cols + x
			var img image.Image
			if i < len(m.frame) {
				img = m.frame[i]
			}
			body, err := m.renderer.Button(img, m.cfg.CellWidth, m.cfg.CellHeight)
			if err != nil {
				body = fmt.Sprintf("render error:\n%v", err)
			}

			style := cellStyle
			if i == m.sel {
				style = selectedStyle
			}
			cells = append(cells, zone.Mark(cellZoneID(i), style.Render(body)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	status := fmt.Sprintf("presses: %d  protocol: %s", m.app.pressCount(), m.renderer.Protocol())
	out := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		statusStyle.Render(status),
		m.help.View(m.keys),
	)
	return zone.Scan(out)
}
