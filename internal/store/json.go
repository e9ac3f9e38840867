package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/pomorks/internal/session"
	"github.com/sadopc/pomorks/internal/todo"
)

const (
	tasksFile   = "task.json"
	archiveFile = "archive.json"
	dealingFile = "task_dealing.json"
	logFile     = "task_log.json"

	jsonFileMode os.FileMode = 0o644
)

// JSONStore keeps each collection in its own JSON file under dir.
type JSONStore struct {
	dir string
}

type taskFile struct {
	TodoList map[string]todo.Item `json:"todo_list"`
}

type logRecord struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
}

func NewJSON(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) Name() string { return "json" }

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) WriteAllTasks(items []todo.Item) error {
	tf := taskFile{TodoList: make(map[string]todo.Item, len(items))}
	for _, it := range items {
		tf.TodoList[it.ID] = it
	}
	return wrap(s.Name(), "write tasks", s.write(tasksFile, tf))
}

func (s *JSONStore) ReadAllTasks() ([]todo.Item, bool, error) {
	var tf taskFile
	found, err := s.read(tasksFile, &tf)
	if err != nil || !found {
		return nil, false, wrap(s.Name(), "read tasks", err)
	}
	items := make([]todo.Item, 0, len(tf.TodoList))
	for id, it := range tf.TodoList {
		it.ID = id
		items = append(items, it)
	}
	todo.Sort(items)
	return items, true, nil
}

func (s *JSONStore) ArchiveTasks(items []todo.Item) error {
	if len(items) == 0 {
		return nil
	}
	var archived []todo.Item
	if _, err := s.read(archiveFile, &archived); err != nil {
		return wrap(s.Name(), "read archive", err)
	}
	archived = append(archived, items...)
	return wrap(s.Name(), "write archive", s.write(archiveFile, archived))
}

// ReadArchive returns every archived item in archive order.
func (s *JSONStore) ReadArchive() ([]todo.Item, error) {
	var archived []todo.Item
	_, err := s.read(archiveFile, &archived)
	return archived, wrap(s.Name(), "read archive", err)
}

func (s *JSONStore) WriteTaskDealing(taskID string, start time.Time, state session.State) error {
	d := session.NewDealing(taskID, start, state)
	return wrap(s.Name(), "write task dealing", s.write(dealingFile, d))
}

func (s *JSONStore) ReadTaskDealing() (session.Dealing, error) {
	var d session.Dealing
	if _, err := s.read(dealingFile, &d); err != nil {
		return session.Dealing{}, nil
	}
	return d, nil
}

func (s *JSONStore) DeleteTaskDealing() error {
	err := os.Remove(filepath.Join(s.dir, dealingFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return wrap(s.Name(), "delete task dealing", err)
}

func (s *JSONStore) AppendTaskLog(taskID string, at time.Time) error {
	var logs []logRecord
	if _, err := s.read(logFile, &logs); err != nil {
		return wrap(s.Name(), "read task log", err)
	}
	logs = append(logs, logRecord{ID: taskID, Date: at})
	return wrap(s.Name(), "write task log", s.write(logFile, logs))
}

func (s *JSONStore) CountLogsOnDay(day time.Time) (int, error) {
	logs, err := s.ReadAllLogs()
	if err != nil {
		return 0, err
	}
	want := dayKey(day)
	n := 0
	for _, l := range logs {
		if dayKey(l.CompletedAt.In(day.Location())) == want {
			n++
		}
	}
	return n, nil
}

func (s *JSONStore) ReadAllLogs() ([]todo.LogEntry, error) {
	var logs []logRecord
	if _, err := s.read(logFile, &logs); err != nil {
		return nil, wrap(s.Name(), "read task log", err)
	}
	entries := make([]todo.LogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, todo.LogEntry{TaskID: l.ID, CompletedAt: l.Date})
	}
	return entries, nil
}

// read decodes name into v. A missing file is reported as found=false.
func (s *JSONStore) read(name string, v any) (found bool, err error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// write replaces name atomically via a temp file and rename.
func (s *JSONStore) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(jsonFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
