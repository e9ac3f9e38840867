// Package export writes the completion log, joined with task details, to CSV
// and JSON files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sadopc/pomorks/internal/todo"
)

// Files writes both formats into dir with timestamped names and returns the
// paths written.
func Files(dir string, now time.Time, logs []todo.LogEntry, tasks map[string]todo.Item, work time.Duration) (csvPath, jsonPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create export directory: %w", err)
	}
	base := filepath.Join(dir, "pomorks-"+now.Format("20060102-150405"))
	csvPath, jsonPath = base+".csv", base+".json"

	if err := ToCSV(logs, tasks, work, csvPath); err != nil {
		return "", "", err
	}
	if err := ToJSON(logs, tasks, work, now, jsonPath); err != nil {
		return "", "", err
	}
	return csvPath, jsonPath, nil
}

func ToCSV(logs []todo.LogEntry, tasks map[string]todo.Item, work time.Duration, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"Task ID", "Title", "Project", "Tag", "Completed", "Duration", "Executed", "Estimate", "Finished"}); err != nil {
		return err
	}

	for _, l := range logs {
		it := lookup(tasks, l.TaskID)
		row := []string{
			l.TaskID,
			it.Title,
			it.Project,
			it.Tag,
			l.CompletedAt.Local().Format(time.RFC3339),
			formatDuration(int64(work.Seconds())),
			strconv.Itoa(it.ExecutedCount),
			strconv.Itoa(it.EstimateCount),
			strconv.FormatBool(it.Finished),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// lookup returns the task for id, or a placeholder titled "Unknown" when the
// task was archived or deleted.
func lookup(tasks map[string]todo.Item, id string) todo.Item {
	if it, ok := tasks[id]; ok {
		return it
	}
	return todo.Item{ID: id, Title: "Unknown"}
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
