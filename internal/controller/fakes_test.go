package controller

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/pomorks/internal/events"
	"github.com/sadopc/pomorks/internal/report"
	"github.com/sadopc/pomorks/internal/session"
	"github.com/sadopc/pomorks/internal/todo"
)

var errBoom = errors.New("disk full")

type memStore struct {
	tasks     []todo.Item
	archived  []todo.Item
	dealing   session.Dealing
	logs      []todo.LogEntry
	writes    int
	failWrite bool
	failArch  bool
	// failDelete is the number of upcoming DeleteTaskDealing calls that fail.
	failDelete int
}

func (m *memStore) Name() string { return "memory" }
func (m *memStore) Close() error { return nil }

func (m *memStore) WriteAllTasks(items []todo.Item) error {
	m.writes++
	if m.failWrite {
		return errBoom
	}
	m.tasks = append([]todo.Item(nil), items...)
	return nil
}

func (m *memStore) ReadAllTasks() ([]todo.Item, bool, error) {
	return m.tasks, m.tasks != nil, nil
}

func (m *memStore) ArchiveTasks(items []todo.Item) error {
	if m.failArch {
		return errBoom
	}
	m.archived = append(m.archived, items...)
	return nil
}

func (m *memStore) WriteTaskDealing(taskID string, start time.Time, state session.State) error {
	m.dealing = session.NewDealing(taskID, start, state)
	return nil
}

func (m *memStore) ReadTaskDealing() (session.Dealing, error) { return m.dealing, nil }

func (m *memStore) DeleteTaskDealing() error {
	if m.failDelete > 0 {
		m.failDelete--
		return errBoom
	}
	m.dealing = session.Dealing{}
	return nil
}

func (m *memStore) AppendTaskLog(taskID string, at time.Time) error {
	m.logs = append(m.logs, todo.LogEntry{TaskID: taskID, CompletedAt: at})
	return nil
}

func (m *memStore) CountLogsOnDay(day time.Time) (int, error) {
	return report.CountOn(m.logs, day), nil
}

func (m *memStore) ReadAllLogs() ([]todo.LogEntry, error) { return m.logs, nil }

type recordingNotifier struct {
	states []session.State
	err    error
}

func (n *recordingNotifier) Notify(s session.State) error {
	n.states = append(n.states, s)
	return n.err
}

type recordingRenderer struct {
	snaps []Snapshot
}

func (r *recordingRenderer) Render(s Snapshot) { r.snaps = append(r.snaps, s) }

func (r *recordingRenderer) last() Snapshot { return r.snaps[len(r.snaps)-1] }

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type harness struct {
	ctrl     *Controller
	store    *memStore
	notifier *recordingNotifier
	renderer *recordingRenderer
	clock    *clock
}

func newHarness(loaded Loaded) *harness {
	h := &harness{
		store:    &memStore{},
		notifier: &recordingNotifier{},
		renderer: &recordingRenderer{},
		clock:    &clock{t: time.Date(2022, 6, 3, 9, 0, 0, 0, time.UTC)},
	}
	h.ctrl = New(Options{
		Store:     h.store,
		Notifier:  h.notifier,
		Renderer:  h.renderer,
		Unit:      time.Second,
		ExportDir: "",
		Now:       h.clock.now,
	}, loaded)
	return h
}

func (h *harness) key(s string) {
	h.ctrl.Step(events.KeyEvent(keyMsg(s)))
}

func (h *harness) typeText(text string) {
	for _, r := range text {
		if r == ' ' {
			h.ctrl.Step(events.KeyEvent(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}))
			continue
		}
		h.ctrl.Step(events.KeyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}))
	}
}

func (h *harness) tick() {
	h.ctrl.Step(events.TickEvent())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
