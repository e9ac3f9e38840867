// Package report counts completed work units per calendar day, week, month
// and year.
package report

import (
	"time"

	"github.com/sadopc/pomorks/internal/todo"
)

// Summary holds completion counts for the periods containing a reference day.
type Summary struct {
	Today int
	Week  int
	Month int
	Year  int
}

// startOfDay truncates t to local midnight in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WeekOf returns the seven days Monday through Sunday of the week containing day.
func WeekOf(day time.Time) []time.Time {
	day = startOfDay(day)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	monday := day.AddDate(0, 0, -offset)

	week := make([]time.Time, 7)
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}

// MonthOf returns every day of the month containing day.
func MonthOf(day time.Time) []time.Time {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	var month []time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		month = append(month, d)
	}
	return month
}

// CountOn counts log entries completed on day, compared in day's location.
func CountOn(logs []todo.LogEntry, day time.Time) int {
	n := 0
	for _, l := range logs {
		if sameDay(l.CompletedAt.In(day.Location()), day) {
			n++
		}
	}
	return n
}

// DailyCounts returns CountOn for each of days.
func DailyCounts(logs []todo.LogEntry, days []time.Time) []int {
	counts := make([]int, len(days))
	for _, l := range logs {
		for i, d := range days {
			if sameDay(l.CompletedAt.In(d.Location()), d) {
				counts[i]++
				break
			}
		}
	}
	return counts
}

func Summarize(logs []todo.LogEntry, now time.Time) Summary {
	week := WeekOf(now)
	weekStart, weekEnd := week[0], week[6].AddDate(0, 0, 1)

	var s Summary
	for _, l := range logs {
		at := l.CompletedAt.In(now.Location())
		if sameDay(at, now) {
			s.Today++
		}
		if !at.Before(weekStart) && at.Before(weekEnd) {
			s.Week++
		}
		if at.Year() == now.Year() {
			s.Year++
			if at.Month() == now.Month() {
				s.Month++
			}
		}
	}
	return s
}

// Weekday is the short label used under the weekly chart, e.g. "Mon".
func Weekday(day time.Time) string {
	return day.Format("Mon")
}
