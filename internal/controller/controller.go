// Package controller runs the session loop: it consumes the event stream,
// turns events into commands, applies them to the task registry and session
// state, persists the result and hands a snapshot to the renderer.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sadopc/pomorks/internal/events"
	"github.com/sadopc/pomorks/internal/export"
	"github.com/sadopc/pomorks/internal/notify"
	"github.com/sadopc/pomorks/internal/report"
	"github.com/sadopc/pomorks/internal/session"
	"github.com/sadopc/pomorks/internal/store"
	"github.com/sadopc/pomorks/internal/timer"
	"github.com/sadopc/pomorks/internal/todo"
)

// Renderer draws a snapshot. Render must not block on the terminal.
type Renderer interface {
	Render(Snapshot)
}

type Options struct {
	Store    store.Backend
	Notifier notify.Notifier
	Renderer Renderer
	Logger   *slog.Logger

	// Unit is the length of one session time unit.
	Unit      time.Duration
	ExportDir string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Loaded is the persisted state read at startup.
type Loaded struct {
	Tasks   []todo.Item
	Dealing session.Dealing
	Logs    []todo.LogEntry
}

// Controller exclusively owns the registry, session state, tracker and
// dispatcher. It is driven from a single goroutine.
type Controller struct {
	store      store.Backend
	renderer   Renderer
	logger     *slog.Logger
	unit       time.Duration
	exportDir  string
	now        func() time.Time
	dispatcher *Dispatcher

	registry *todo.Registry
	state    session.State
	tracker  timer.Tracker
	logs     []todo.LogEntry
	today    int

	// dealingStale is set when a finished timer's record could not be
	// deleted. The delete is retried on the next step and at shutdown.
	dealingStale bool
	flushed      bool
}

func New(opts Options, loaded Loaded) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Unit <= 0 {
		opts.Unit = session.UnitProduction
	}

	c := &Controller{
		store:      opts.Store,
		renderer:   opts.Renderer,
		logger:     opts.Logger,
		unit:       opts.Unit,
		exportDir:  opts.ExportDir,
		now:        opts.Now,
		dispatcher: NewDispatcher(opts.Notifier, opts.Logger),
		registry:   todo.NewRegistry(loaded.Tasks...),
		state:      session.Initial(),
		logs:       loaded.Logs,
	}
	c.restore(loaded.Dealing)
	c.today = report.CountOn(c.logs, c.now())
	return c
}

// restore resumes the state and running timer recorded before an unclean exit.
func (c *Controller) restore(d session.Dealing) {
	if d.State != nil {
		c.state = *d.State
	}
	if !d.Active() {
		return
	}
	var id string
	if d.TaskID != nil {
		id = *d.TaskID
	}
	c.tracker = timer.Restore(*d.Start, id)
	c.logger.Info("resumed running timer", "task", id, "state", c.state.String(), "started", d.Start.Format(time.RFC3339))
}

// Run consumes events until the user quits or the stream closes, then
// performs the shutdown flush.
func (c *Controller) Run(evs <-chan events.Event) error {
	c.render()
	for ev := range evs {
		c.Step(ev)
		if c.dispatcher.Quit() {
			break
		}
	}
	return c.Shutdown()
}

// Step handles a single event and renders the result.
func (c *Controller) Step(ev events.Event) {
	now := c.now()
	if c.dealingStale && !c.tracker.Running() {
		c.clearDealing()
	}
	cmd := c.dispatcher.Handle(ev, Session{
		Registry: c.registry,
		Tasks:    c.registry.Sorted(),
		State:    c.state,
		Tracker:  &c.tracker,
		Now:      now,
		Unit:     c.unit,
	})
	if cmd != nil {
		c.logger.Debug("applying command", "command", describe(cmd))
		c.apply(cmd, now)
	}
	c.render()
}

func (c *Controller) render() {
	if c.renderer != nil {
		c.renderer.Render(c.snapshot(c.now()))
	}
}

func (c *Controller) apply(cmd Command, now time.Time) {
	switch cmd := cmd.(type) {
	case CountIncrement:
		c.countIncrement(cmd.Item, now)
	case AddNewTodo:
		if err := c.registry.Add(cmd.Item); err != nil {
			c.fail("add task", err)
			return
		}
		c.dispatcher.SetStatus(fmt.Sprintf("added %q", cmd.Item.Title))
		c.writeTasks()
	case ChangeFinishStatus:
		c.registry.Upsert(cmd.Item)
		c.writeTasks()
	case ArchiveFinishedTodo:
		c.archive()
	case StartTodo:
		c.tracker.Start(cmd.At, cmd.TaskID)
		c.state = cmd.State
		c.dispatcher.SetStatus("started " + c.state.Name())
		if err := c.store.WriteTaskDealing(cmd.TaskID, cmd.At, cmd.State); err != nil {
			c.fail("record running timer", err)
		}
	case MoveNextState:
		c.move(c.state.Next())
	case MovePrevState:
		c.move(c.state.Prev())
	case ExportTodo:
		c.export(cmd.At)
	default:
		c.logger.Warn("unknown command", "command", cmd.Name())
	}
}

func (c *Controller) countIncrement(it todo.Item, now time.Time) {
	if cur, ok := c.registry.Get(it.ID); ok {
		it = cur
	}
	it.ExecutedCount++
	c.registry.Upsert(it)
	c.state = c.state.Next()
	c.tracker.Stop()
	c.dispatcher.SetStatus(fmt.Sprintf("%q %s", it.Title, it.Progress()))

	c.clearDealing()
	if err := c.store.AppendTaskLog(it.ID, now); err != nil {
		c.fail("append task log", err)
	}
	c.logs = append(c.logs, todo.LogEntry{TaskID: it.ID, CompletedAt: now})

	today, err := c.store.CountLogsOnDay(now)
	if err != nil {
		c.logger.Warn("count today's completions", "error", err)
		today = report.CountOn(c.logs, now)
	}
	c.today = today
	c.writeTasks()
}

func (c *Controller) archive() {
	drained := c.registry.DrainFinished()
	if len(drained) == 0 {
		c.dispatcher.SetStatus("no finished tasks to archive")
		return
	}
	if err := c.store.ArchiveTasks(drained); err != nil {
		for _, it := range drained {
			c.registry.Upsert(it)
		}
		c.fail("archive tasks", err)
		return
	}
	c.dispatcher.SetStatus(fmt.Sprintf("archived %d task(s)", len(drained)))
	c.writeTasks()
}

func (c *Controller) move(next session.State) {
	c.state = next
	c.tracker.Stop()
	c.clearDealing()
}

func (c *Controller) clearDealing() {
	if err := c.store.DeleteTaskDealing(); err != nil {
		c.dealingStale = true
		c.fail("clear running timer", err)
		return
	}
	c.dealingStale = false
}

func (c *Controller) export(at time.Time) {
	logs, err := c.store.ReadAllLogs()
	if err != nil {
		c.logger.Warn("read task log for export", "error", err)
		logs = c.logs
	}
	tasks := make(map[string]todo.Item, c.registry.Len())
	for _, it := range c.registry.All() {
		tasks[it.ID] = it
	}
	work := session.Initial().Limit(c.unit)
	csvPath, _, err := export.Files(c.exportDir, at, logs, tasks, work)
	if err != nil {
		c.fail("export", err)
		return
	}
	c.dispatcher.SetStatus("exported to " + csvPath + " and .json")
}

func (c *Controller) writeTasks() {
	if err := c.store.WriteAllTasks(c.registry.Sorted()); err != nil {
		c.fail("save tasks", err)
	}
}

func (c *Controller) fail(op string, err error) {
	c.logger.Error(op+" failed", "error", err)
	c.dispatcher.SetStatus(op + ": " + err.Error())
}

// Shutdown clears a live or stale timer record and writes the registry. Only the
// first call has any effect.
func (c *Controller) Shutdown() error {
	if c.flushed {
		return nil
	}
	c.flushed = true

	var errs []error
	if c.tracker.Running() || c.dealingStale {
		if err := c.store.DeleteTaskDealing(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.store.WriteAllTasks(c.registry.Sorted()); err != nil {
		errs = append(errs, err)
	}
	err := errors.Join(errs...)
	if err != nil {
		c.logger.Error("shutdown flush failed", "error", err)
	} else {
		c.logger.Info("shutdown flush complete", "tasks", c.registry.Len())
	}
	return err
}

// State returns the current session state.
func (c *Controller) State() session.State { return c.state }

// Registry exposes the live task set.
func (c *Controller) Registry() *todo.Registry { return c.registry }
