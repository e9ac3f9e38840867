package controller

import (
	"time"

	"github.com/sadopc/pomorks/internal/report"
	"github.com/sadopc/pomorks/internal/session"
	"github.com/sadopc/pomorks/internal/todo"
)

// DayCount is the number of completed work periods on Day.
type DayCount struct {
	Day   time.Time
	Count int
}

// Snapshot is an immutable view of the loop state handed to the Renderer.
type Snapshot struct {
	Backend string

	Mode   Mode
	Input  string
	Tasks  []todo.Item
	Cursor int
	// Focused is valid when HasFocus is set.
	Focused  todo.Item
	HasFocus bool

	State       session.State
	Running     bool
	RunningTask todo.Item
	HasRunning  bool
	Elapsed     time.Duration
	Remaining   time.Duration
	Limit       time.Duration
	Progress    float64

	Status  string
	Today   int
	Week    []DayCount
	Month   []DayCount
	Summary report.Summary

	ShowHelp  bool
	ShowChart bool
	Quitting  bool
}

func (c *Controller) snapshot(now time.Time) Snapshot {
	tasks := c.registry.Sorted()
	d := c.dispatcher
	d.Clamp(len(tasks))
	limit := c.state.Limit(c.unit)

	s := Snapshot{
		Backend:   c.store.Name(),
		Mode:      d.Mode(),
		Input:     d.Input(),
		Tasks:     tasks,
		Cursor:    d.Cursor(),
		State:     c.state,
		Running:   c.tracker.Running(),
		Elapsed:   c.tracker.Elapsed(now),
		Remaining: c.tracker.Remaining(now, limit),
		Limit:     limit,
		Progress:  c.tracker.Progress(now, limit),
		Status:    d.Status(),
		Today:     c.today,
		Summary:   report.Summarize(c.logs, now),
		ShowHelp:  d.ShowHelp(),
		ShowChart: d.ShowChart(),
		Quitting:  d.Quit(),
	}
	if len(tasks) > 0 {
		s.Focused, s.HasFocus = tasks[s.Cursor], true
	}
	if s.Running {
		s.RunningTask, s.HasRunning = c.registry.Get(c.tracker.TaskID())
	}

	s.Week = c.dayCounts(report.WeekOf(now))
	s.Month = c.dayCounts(report.MonthOf(now))
	return s
}

func (c *Controller) dayCounts(days []time.Time) []DayCount {
	counts := report.DailyCounts(c.logs, days)
	out := make([]DayCount, len(days))
	for i, day := range days {
		out[i] = DayCount{Day: day, Count: counts[i]}
	}
	return out
}
