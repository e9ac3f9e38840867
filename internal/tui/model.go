// Package tui draws controller snapshots with Bubble Tea and feeds key
// presses back to the event multiplexer.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/pomorks/internal/controller"
)

type snapshotMsg controller.Snapshot

// Model is the root Bubble Tea model. It holds no session state of its own:
// keys go out on the key channel and snapshots come back from the Renderer.
type Model struct {
	keys   chan<- tea.KeyMsg
	snap   controller.Snapshot
	ready  bool
	width  int
	height int
	help   help.Model
}

func NewModel(keys chan<- tea.KeyMsg) Model {
	h := help.New()
	h.ShowAll = false

	return Model{keys: keys, help: h}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		// Drop rather than stall the terminal if the loop has stopped reading.
		select {
		case m.keys <- msg:
		default:
		}
		return m, nil

	case snapshotMsg:
		m.snap = controller.Snapshot(msg)
		m.ready = true
		m.help.ShowAll = m.snap.ShowHelp
		return m, nil
	}
	return m, nil
}
