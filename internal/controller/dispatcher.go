package controller

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/pomorks/internal/events"
	"github.com/sadopc/pomorks/internal/notify"
	"github.com/sadopc/pomorks/internal/session"
	"github.com/sadopc/pomorks/internal/timer"
	"github.com/sadopc/pomorks/internal/todo"
)

type Mode int

const (
	Normal Mode = iota
	AddingTask
)

func (m Mode) String() string {
	if m == AddingTask {
		return "ADD"
	}
	return "NORMAL"
}

// Session is the loop-owned state the Dispatcher reads while handling an
// event. Tracker is shared so expiry is reported once per timer.
type Session struct {
	Registry *todo.Registry
	Tasks    []todo.Item // Registry.Sorted()
	State    session.State
	Tracker  *timer.Tracker
	Now      time.Time
	Unit     time.Duration
}

// Dispatcher turns events into Commands and owns the UI-only state: mode,
// input buffer, cursor and toggles.
type Dispatcher struct {
	keys     KeyMap
	notifier notify.Notifier
	logger   *slog.Logger

	mode      Mode
	buffer    []rune
	cursor    int
	status    string
	showHelp  bool
	showChart bool
	quit      bool
}

func NewDispatcher(notifier notify.Notifier, logger *slog.Logger) *Dispatcher {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{keys: Keys, notifier: notifier, logger: logger}
}

func (d *Dispatcher) Mode() Mode      { return d.mode }
func (d *Dispatcher) Input() string   { return string(d.buffer) }
func (d *Dispatcher) Cursor() int     { return d.cursor }
func (d *Dispatcher) Status() string  { return d.status }
func (d *Dispatcher) ShowHelp() bool  { return d.showHelp }
func (d *Dispatcher) ShowChart() bool { return d.showChart }
func (d *Dispatcher) Quit() bool      { return d.quit }

func (d *Dispatcher) SetStatus(s string) { d.status = s }

// Clamp keeps the cursor inside a list of n items.
func (d *Dispatcher) Clamp(n int) {
	switch {
	case n == 0:
		d.cursor = 0
	case d.cursor >= n:
		d.cursor = n - 1
	case d.cursor < 0:
		d.cursor = 0
	}
}

// Handle returns the command for ev, or nil when the event only changes
// dispatcher state.
func (d *Dispatcher) Handle(ev events.Event, s Session) Command {
	switch ev.Kind {
	case events.Tick:
		return d.tick(s)
	case events.Input:
		if d.mode == AddingTask {
			return d.entry(ev.Key)
		}
		return d.normal(ev.Key, s)
	}
	return nil
}

func (d *Dispatcher) tick(s Session) Command {
	if !s.Tracker.CheckExpired(s.Now, s.State.Limit(s.Unit)) {
		return nil
	}

	if err := d.notifier.Notify(s.State); err != nil {
		d.logger.Warn("notification failed", "state", s.State.Name(), "error", err)
	}

	if s.State.Kind == session.Work {
		if it, ok := s.Registry.Get(s.Tracker.TaskID()); ok {
			return CountIncrement{Item: it}
		}
	}
	return MoveNextState{}
}

func (d *Dispatcher) normal(msg tea.KeyMsg, s Session) Command {
	switch {
	case key.Matches(msg, d.keys.Quit):
		d.quit = true
	case key.Matches(msg, d.keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, d.keys.Down):
		if d.cursor < len(s.Tasks)-1 {
			d.cursor++
		}
	case key.Matches(msg, d.keys.Add):
		d.mode = AddingTask
		d.buffer = d.buffer[:0]
		d.status = ""
	case key.Matches(msg, d.keys.Finish):
		if it, ok := d.focused(s); ok {
			it.Finished = !it.Finished
			return ChangeFinishStatus{Item: it}
		}
	case key.Matches(msg, d.keys.Archive):
		return ArchiveFinishedTodo{}
	case key.Matches(msg, d.keys.Next):
		if s.Tracker.Running() {
			d.status = "stop the running timer before changing state"
			return nil
		}
		return MoveNextState{}
	case key.Matches(msg, d.keys.Prev):
		if s.Tracker.Running() {
			d.status = "stop the running timer before changing state"
			return nil
		}
		return MovePrevState{}
	case key.Matches(msg, d.keys.Start):
		if s.Tracker.Running() {
			return nil
		}
		var id string
		if it, ok := d.focused(s); ok {
			id = it.ID
		}
		return StartTodo{At: s.Now, TaskID: id, State: s.State}
	case key.Matches(msg, d.keys.Export):
		return ExportTodo{At: s.Now}
	case key.Matches(msg, d.keys.Chart):
		d.showChart = !d.showChart
	case key.Matches(msg, d.keys.Help):
		d.showHelp = !d.showHelp
	}
	return nil
}

func (d *Dispatcher) entry(msg tea.KeyMsg) Command {
	switch {
	case key.Matches(msg, d.keys.Interrupt):
		d.quit = true
	case key.Matches(msg, d.keys.Cancel):
		d.leaveEntry()
	case key.Matches(msg, d.keys.Submit):
		text := string(d.buffer)
		d.leaveEntry()
		it, err := todo.Parse(text)
		if err != nil {
			d.status = err.Error()
			d.logger.Debug("rejected task input", "input", text, "error", err)
			return nil
		}
		return AddNewTodo{Item: it}
	case key.Matches(msg, d.keys.Backspace):
		if n := len(d.buffer); n > 0 {
			d.buffer = d.buffer[:n-1]
		}
	case msg.Type == tea.KeySpace:
		d.buffer = append(d.buffer, ' ')
	case msg.Type == tea.KeyRunes:
		d.buffer = append(d.buffer, msg.Runes...)
	}
	return nil
}

func (d *Dispatcher) leaveEntry() {
	d.mode = Normal
	d.buffer = d.buffer[:0]
}

func (d *Dispatcher) focused(s Session) (todo.Item, bool) {
	if d.cursor < 0 || d.cursor >= len(s.Tasks) {
		return todo.Item{}, false
	}
	return s.Tasks[d.cursor], true
}

// EntryPrompt is the placeholder shown while the buffer is empty.
const EntryPrompt = "title tag project estimate"

func describe(cmd Command) string {
	switch c := cmd.(type) {
	case CountIncrement:
		return fmt.Sprintf("%s %s", c.Name(), c.Item.ID)
	case AddNewTodo:
		return fmt.Sprintf("%s %s %q", c.Name(), c.Item.ID, c.Item.Title)
	case ChangeFinishStatus:
		return fmt.Sprintf("%s %s finished=%t", c.Name(), c.Item.ID, c.Item.Finished)
	case StartTodo:
		return fmt.Sprintf("%s %q %s", c.Name(), c.TaskID, c.State)
	}
	return cmd.Name()
}
