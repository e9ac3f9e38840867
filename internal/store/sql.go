package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/pomorks/internal/session"
	"github.com/sadopc/pomorks/internal/todo"
)

// dialect captures the differences between the SQL backends.
type dialect struct {
	name     string
	numbered bool // $1, $2 placeholders instead of ?
}

var (
	sqliteDialect   = dialect{name: "sqlite"}
	postgresDialect = dialect{name: "postgres", numbered: true}
)

// SQLStore implements Backend over database/sql for SQLite and PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *SQLStore) Name() string { return s.dialect.name }

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// q rewrites ? placeholders for dialects that number them.
func (s *SQLStore) q(query string) string {
	if !s.dialect.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const taskColumns = `id, title, tag, project, estimate_count, executed_count, finished, detail`

func (s *SQLStore) WriteAllTasks(items []todo.Item) error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrap(s.Name(), "write tasks", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return wrap(s.Name(), "clear tasks", err)
	}
	stmt, err := tx.Prepare(s.q(`INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return wrap(s.Name(), "prepare task insert", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.Exec(it.ID, it.Title, it.Tag, it.Project, it.EstimateCount, it.ExecutedCount, boolToInt(it.Finished), it.Detail); err != nil {
			return wrap(s.Name(), fmt.Sprintf("insert task %s", it.ID), err)
		}
	}
	return wrap(s.Name(), "commit tasks", tx.Commit())
}

func (s *SQLStore) ReadAllTasks() ([]todo.Item, bool, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY project, tag, title, id`)
	if err != nil {
		return nil, false, wrap(s.Name(), "list tasks", err)
	}
	defer rows.Close()

	var items []todo.Item
	for rows.Next() {
		var it todo.Item
		var finished int
		if err := rows.Scan(&it.ID, &it.Title, &it.Tag, &it.Project, &it.EstimateCount, &it.ExecutedCount, &finished, &it.Detail); err != nil {
			return nil, false, wrap(s.Name(), "scan task", err)
		}
		it.Finished = finished == 1
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, false, wrap(s.Name(), "list tasks", err)
	}
	return items, true, nil
}

func (s *SQLStore) ArchiveTasks(items []todo.Item) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return wrap(s.Name(), "archive tasks", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(s.q(`
		INSERT INTO archive (` + taskColumns + `, archived_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, tag = excluded.tag, project = excluded.project,
			estimate_count = excluded.estimate_count, executed_count = excluded.executed_count,
			finished = excluded.finished, detail = excluded.detail, archived_at = excluded.archived_at`))
	if err != nil {
		return wrap(s.Name(), "prepare archive insert", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, it := range items {
		if _, err := stmt.Exec(it.ID, it.Title, it.Tag, it.Project, it.EstimateCount, it.ExecutedCount, boolToInt(it.Finished), it.Detail, now); err != nil {
			return wrap(s.Name(), fmt.Sprintf("archive task %s", it.ID), err)
		}
	}
	return wrap(s.Name(), "commit archive", tx.Commit())
}

// ReadArchive returns every archived item.
func (s *SQLStore) ReadArchive() ([]todo.Item, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM archive ORDER BY archived_at, id`)
	if err != nil {
		return nil, wrap(s.Name(), "list archive", err)
	}
	defer rows.Close()

	var items []todo.Item
	for rows.Next() {
		var it todo.Item
		var finished int
		if err := rows.Scan(&it.ID, &it.Title, &it.Tag, &it.Project, &it.EstimateCount, &it.ExecutedCount, &finished, &it.Detail); err != nil {
			return nil, wrap(s.Name(), "scan archive", err)
		}
		it.Finished = finished == 1
		items = append(items, it)
	}
	return items, wrap(s.Name(), "list archive", rows.Err())
}

func (s *SQLStore) WriteTaskDealing(taskID string, start time.Time, state session.State) error {
	_, err := s.db.Exec(s.q(`
		INSERT INTO task_dealing (slot, task_id, start_time, state) VALUES (1, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			task_id = excluded.task_id, start_time = excluded.start_time, state = excluded.state`),
		taskID, start.Format(time.RFC3339Nano), state.Encode(),
	)
	return wrap(s.Name(), "write task dealing", err)
}

func (s *SQLStore) ReadTaskDealing() (session.Dealing, error) {
	var taskID, startStr, stateStr string
	err := s.db.QueryRow(`SELECT task_id, start_time, state FROM task_dealing WHERE slot = 1`).
		Scan(&taskID, &startStr, &stateStr)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Dealing{}, nil
	}
	if err != nil {
		return session.Dealing{}, wrap(s.Name(), "read task dealing", err)
	}
	start, err := time.Parse(time.RFC3339Nano, startStr)
	if err != nil {
		return session.Dealing{}, nil
	}
	state, err := session.Decode(stateStr)
	if err != nil {
		return session.Dealing{}, nil
	}
	return session.NewDealing(taskID, start, state), nil
}

func (s *SQLStore) DeleteTaskDealing() error {
	_, err := s.db.Exec(`DELETE FROM task_dealing`)
	return wrap(s.Name(), "delete task dealing", err)
}

func (s *SQLStore) AppendTaskLog(taskID string, at time.Time) error {
	_, err := s.db.Exec(s.q(`INSERT INTO task_log (task_id, completed_at, day) VALUES (?, ?, ?)`),
		taskID, at.Format(time.RFC3339Nano), dayKey(at),
	)
	return wrap(s.Name(), "append task log", err)
}

func (s *SQLStore) CountLogsOnDay(day time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(s.q(`SELECT COUNT(*) FROM task_log WHERE day = ?`), dayKey(day)).Scan(&n)
	if err != nil {
		return 0, wrap(s.Name(), "count task log", err)
	}
	return n, nil
}

func (s *SQLStore) ReadAllLogs() ([]todo.LogEntry, error) {
	rows, err := s.db.Query(`SELECT task_id, completed_at FROM task_log ORDER BY id`)
	if err != nil {
		return nil, wrap(s.Name(), "list task log", err)
	}
	defer rows.Close()

	var entries []todo.LogEntry
	for rows.Next() {
		var e todo.LogEntry
		var at string
		if err := rows.Scan(&e.TaskID, &at); err != nil {
			return nil, wrap(s.Name(), "scan task log", err)
		}
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, wrap(s.Name(), "scan task log", err)
		}
		e.CompletedAt = t
		entries = append(entries, e)
	}
	return entries, wrap(s.Name(), "list task log", rows.Err())
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
