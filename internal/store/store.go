// Package store persists tasks, the running-timer record and the completion
// log. Three interchangeable backends implement Backend: JSON files, SQLite
// and PostgreSQL.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/pomorks/internal/session"
	"github.com/sadopc/pomorks/internal/todo"
)

// Backend is the persistence port used by the controller loop.
type Backend interface {
	Name() string

	WriteAllTasks(items []todo.Item) error
	// ReadAllTasks reports ok=false when nothing was ever written.
	ReadAllTasks() (items []todo.Item, ok bool, err error)
	// ArchiveTasks merges items into the archive without dropping earlier ones.
	ArchiveTasks(items []todo.Item) error

	WriteTaskDealing(taskID string, start time.Time, state session.State) error
	// ReadTaskDealing returns a zero Dealing when none is stored or the stored
	// record cannot be decoded.
	ReadTaskDealing() (session.Dealing, error)
	DeleteTaskDealing() error

	AppendTaskLog(taskID string, at time.Time) error
	CountLogsOnDay(day time.Time) (int, error)
	ReadAllLogs() ([]todo.LogEntry, error)

	Close() error
}

// Error is a persistence failure.
type Error struct {
	Backend string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s store: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Backend: backend, Op: op, Err: err}
}

// dayKey is the calendar day of t in its own location.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DefaultDataDir returns ~/.config/pomorks
func DefaultDataDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pomorks"), nil
}
