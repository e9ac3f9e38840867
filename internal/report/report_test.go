package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/pomorks/internal/todo"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestWeekOf(t *testing.T) {
	week := WeekOf(date(2022, 6, 3, 15))
	require.Len(t, week, 7)

	want := []time.Time{
		date(2022, 5, 30, 0), date(2022, 5, 31, 0), date(2022, 6, 1, 0),
		date(2022, 6, 2, 0), date(2022, 6, 3, 0), date(2022, 6, 4, 0), date(2022, 6, 5, 0),
	}
	assert.Equal(t, want, week)
}

func TestWeekOfSundayAndMonday(t *testing.T) {
	assert.Equal(t, date(2022, 5, 30, 0), WeekOf(date(2022, 6, 5, 23))[0])
	assert.Equal(t, date(2022, 6, 6, 0), WeekOf(date(2022, 6, 6, 0))[0])
}

func TestMonthOf(t *testing.T) {
	tests := []struct {
		day  time.Time
		want int
	}{
		{date(2022, 6, 3, 0), 30},
		{date(2022, 2, 10, 0), 28},
		{date(2024, 2, 10, 0), 29},
		{date(2022, 12, 31, 0), 31},
	}
	for _, tt := range tests {
		month := MonthOf(tt.day)
		assert.Len(t, month, tt.want, tt.day.Format("2006-01"))
		assert.Equal(t, 1, month[0].Day())
	}
}

func sampleLogs() []todo.LogEntry {
	return []todo.LogEntry{
		{TaskID: "a", CompletedAt: date(2022, 6, 3, 9)},
		{TaskID: "a", CompletedAt: date(2022, 6, 3, 10)},
		{TaskID: "b", CompletedAt: date(2022, 5, 31, 10)}, // same week, previous month
		{TaskID: "b", CompletedAt: date(2022, 7, 3, 10)},  // same day-of-month, next month
		{TaskID: "c", CompletedAt: date(2021, 6, 3, 10)},  // a year earlier
	}
}

func TestCountOn(t *testing.T) {
	logs := sampleLogs()
	assert.Equal(t, 2, CountOn(logs, date(2022, 6, 3, 0)))
	assert.Equal(t, 1, CountOn(logs, date(2022, 7, 3, 0)))
	assert.Equal(t, 0, CountOn(logs, date(2022, 6, 4, 0)))
	assert.Equal(t, 0, CountOn(nil, date(2022, 6, 4, 0)))
}

func TestDailyCounts(t *testing.T) {
	counts := DailyCounts(sampleLogs(), WeekOf(date(2022, 6, 3, 0)))
	assert.Equal(t, []int{0, 1, 0, 0, 2, 0, 0}, counts)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleLogs(), date(2022, 6, 3, 18))
	assert.Equal(t, Summary{Today: 2, Week: 3, Month: 2, Year: 4}, s)
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, "Fri", Weekday(date(2022, 6, 3, 0)))
}
