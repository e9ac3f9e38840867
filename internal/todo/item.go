// Package todo holds the task items tracked by pomorks and the in-memory
// registry the controller loop mutates.
package todo

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"
)

const idLength = 10

type Item struct {
	ID            string `json:"Id"`
	Title         string `json:"Title"`
	Tag           string `json:"Tag"`
	Project       string `json:"Project"`
	EstimateCount int    `json:"EstimateCount"`
	ExecutedCount int    `json:"ExecutedCount"`
	Finished      bool   `json:"Finished"`
	Detail        string `json:"Detail"`
}

// LogEntry records one completed work unit.
type LogEntry struct {
	TaskID      string
	CompletedAt time.Time
}

// NewID returns a random identifier of ten lowercase letters.
func NewID() string {
	var b strings.Builder
	b.Grow(idLength)
	for range idLength {
		b.WriteByte(byte('a' + rand.IntN(26)))
	}
	return b.String()
}

// Parse builds a new item from "title tag project estimate". Fields are
// separated by single spaces and there must be exactly four of them.
func Parse(s string) (Item, error) {
	fields := strings.Split(s, " ")
	if len(fields) != 4 {
		return Item{}, fmt.Errorf("%w: want \"title tag project estimate\", got %d fields", ErrParse, len(fields))
	}
	estimate, err := strconv.Atoi(fields[3])
	if err != nil || estimate < 0 {
		return Item{}, fmt.Errorf("%w: estimate %q is not a non-negative integer", ErrParse, fields[3])
	}
	return Item{
		ID:            NewID(),
		Title:         fields[0],
		Tag:           fields[1],
		Project:       fields[2],
		EstimateCount: estimate,
	}, nil
}

// SameKey reports whether two items share title, tag and project.
func (it Item) SameKey(other Item) bool {
	return it.Title == other.Title && it.Tag == other.Tag && it.Project == other.Project
}

// maxProgressSquares caps the squares drawn by Progress.
const maxProgressSquares = 50

// Progress renders executed/estimated pomodoros as filled and empty squares.
// Past maxProgressSquares the remainder is shown as a count, e.g. "■■□ (+12)".
func (it Item) Progress() string {
	executed := max(it.ExecutedCount, 0)
	total := max(executed, it.EstimateCount)
	shown := min(total, maxProgressSquares)
	done := min(executed, shown)

	out := strings.Repeat("■", done) + strings.Repeat("□", shown-done)
	if total > shown {
		out += fmt.Sprintf(" (+%d)", total-shown)
	}
	return out
}

// Compare orders items by project, tag and title. Items with the same key
// fall back to comparing IDs so the order stays total.
func Compare(a, b Item) int {
	if c := strings.Compare(a.Project, b.Project); c != 0 {
		return c
	}
	if c := strings.Compare(a.Tag, b.Tag); c != 0 {
		return c
	}
	if c := strings.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func Sort(items []Item) {
	slices.SortFunc(items, Compare)
}
