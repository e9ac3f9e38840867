package controller

import (
	"time"

	"github.com/sadopc/pomorks/internal/session"
	"github.com/sadopc/pomorks/internal/todo"
)

// Command is a state mutation produced by the Dispatcher and applied by the
// Controller.
type Command interface {
	Name() string
}

// CountIncrement records one completed work period for Item.
type CountIncrement struct{ Item todo.Item }

// AddNewTodo inserts a freshly parsed item.
type AddNewTodo struct{ Item todo.Item }

// ChangeFinishStatus replaces an item with its finish flag already toggled.
type ChangeFinishStatus struct{ Item todo.Item }

// ArchiveFinishedTodo moves every finished item to the archive.
type ArchiveFinishedTodo struct{}

// StartTodo starts the timer at At in State. TaskID may be empty.
type StartTodo struct {
	At     time.Time
	TaskID string
	State  session.State
}

type MoveNextState struct{}

type MovePrevState struct{}

// ExportTodo writes the completion log to the export directory.
type ExportTodo struct{ At time.Time }

func (CountIncrement) Name() string      { return "count_increment" }
func (AddNewTodo) Name() string          { return "add_new_todo" }
func (ChangeFinishStatus) Name() string  { return "change_finish_status" }
func (ArchiveFinishedTodo) Name() string { return "archive_finished_todo" }
func (StartTodo) Name() string           { return "start_todo" }
func (MoveNextState) Name() string       { return "move_next_state" }
func (MovePrevState) Name() string       { return "move_prev_state" }
func (ExportTodo) Name() string          { return "export_todo" }
