package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomorks/internal/todo"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Project     string `json:"project,omitempty"`
	Tag         string `json:"tag,omitempty"`
	CompletedAt string `json:"completed_at"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Executed    int    `json:"executed"`
	Estimate    int    `json:"estimate"`
	Finished    bool   `json:"finished"`
}

func ToJSON(logs []todo.LogEntry, tasks map[string]todo.Item, work time.Duration, now time.Time, path string) error {
	export := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(logs),
	}

	secs := int64(work.Seconds())
	for _, l := range logs {
		it := lookup(tasks, l.TaskID)
		export.Entries = append(export.Entries, jsonEntry{
			TaskID:      l.TaskID,
			Title:       it.Title,
			Project:     it.Project,
			Tag:         it.Tag,
			CompletedAt: l.CompletedAt.Local().Format(time.RFC3339),
			DurationSec: secs,
			Duration:    formatDuration(secs),
			Executed:    it.ExecutedCount,
			Estimate:    it.EstimateCount,
			Finished:    it.Finished,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
