package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/pomorks/internal/controller"
	"github.com/sadopc/pomorks/internal/session"
	"github.com/sadopc/pomorks/internal/todo"
)

func sampleSnapshot() controller.Snapshot {
	items := []todo.Item{
		{ID: "aaaaaaaaaa", Title: "write docs", Tag: "dev", Project: "pomorks", EstimateCount: 2, ExecutedCount: 1},
		{ID: "bbbbbbbbbb", Title: "review", Finished: true},
	}
	return controller.Snapshot{
		Backend:   "json",
		Tasks:     items,
		Focused:   items[0],
		HasFocus:  true,
		State:     session.Initial(),
		Remaining: 25 * time.Minute,
		Limit:     25 * time.Minute,
		Today:     3,
	}
}

func readyModel(t *testing.T, s controller.Snapshot) Model {
	t.Helper()
	m := NewModel(make(chan tea.KeyMsg, 1))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(snapshotMsg(s))
	return next.(Model)
}

func TestViewBeforeSnapshot(t *testing.T) {
	m := NewModel(make(chan tea.KeyMsg, 1))
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}

func TestUpdateForwardsKeys(t *testing.T) {
	keys := make(chan tea.KeyMsg, 1)
	m := NewModel(keys)

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}
	m.Update(msg)

	select {
	case got := <-keys:
		if got.String() != "s" {
			t.Errorf("forwarded %q, want s", got.String())
		}
	default:
		t.Fatal("key was not forwarded")
	}
}

func TestUpdateDropsKeysWhenFull(t *testing.T) {
	keys := make(chan tea.KeyMsg, 1)
	m := NewModel(keys)

	done := make(chan struct{})
	go func() {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Update blocked on a full key channel")
	}
	if got := (<-keys).String(); got != "a" {
		t.Errorf("kept %q, want a", got)
	}
}

func TestViewShowsTasksAndTimer(t *testing.T) {
	view := readyModel(t, sampleSnapshot()).View()

	for _, want := range []string{"pomorks", "WORK_1", "write docs", "review", "■□", "25:00", "Today: 3", "[json]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewShowsStatus(t *testing.T) {
	s := sampleSnapshot()
	s.Status = "disk full"
	view := readyModel(t, s).View()

	if !strings.Contains(view, "disk full") {
		t.Error("view missing status message")
	}
}

func TestViewEntryMode(t *testing.T) {
	s := sampleSnapshot()
	s.Mode = controller.AddingTask
	view := readyModel(t, s).View()
	if !strings.Contains(view, controller.EntryPrompt) {
		t.Error("empty entry should show the placeholder")
	}

	s.Input = "new thing"
	view = readyModel(t, s).View()
	if !strings.Contains(view, "new thing") {
		t.Error("entry buffer not shown")
	}
	if !strings.Contains(view, "ADD") {
		t.Error("mode not shown")
	}
}

func TestViewChart(t *testing.T) {
	s := sampleSnapshot()
	s.ShowChart = true
	monday := time.Date(2022, 5, 30, 0, 0, 0, 0, time.Local)
	for i := 0; i < 7; i++ {
		s.Week = append(s.Week, controller.DayCount{Day: monday.AddDate(0, 0, i), Count: i})
	}
	first := time.Date(2022, 6, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 30; i++ {
		s.Month = append(s.Month, controller.DayCount{Day: first.AddDate(0, 0, i)})
	}
	s.Month[2].Count = 7
	s.Summary.Year = 42
	view := readyModel(t, s).View()

	for _, want := range []string{"This week", "June 2022", " 3:7", "30:", "Year   42"} {
		if !strings.Contains(view, want) {
			t.Errorf("chart view missing %q", want)
		}
	}
}

func TestViewEmptyList(t *testing.T) {
	s := sampleSnapshot()
	s.Tasks = nil
	s.HasFocus = false
	view := readyModel(t, s).View()
	if !strings.Contains(view, "No tasks") {
		t.Error("empty list hint missing")
	}
}

func TestMonthGridStartsOnWeekday(t *testing.T) {
	var month []controller.DayCount
	first := time.Date(2022, 6, 1, 0, 0, 0, 0, time.Local) // Wednesday
	for i := 0; i < 30; i++ {
		month = append(month, controller.DayCount{Day: first.AddDate(0, 0, i)})
	}

	lines := strings.Split(monthGrid(month), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want title plus 5 weeks", len(lines))
	}
	if !strings.HasPrefix(lines[1], strings.Repeat(" ", 12)+" 1:") {
		t.Errorf("first week = %q, want two blank cells before the 1st", lines[1])
	}
	if !strings.HasPrefix(lines[2], " 6:") {
		t.Errorf("second week = %q, want it to start on Monday the 6th", lines[2])
	}
	if monthGrid(nil) != "" {
		t.Error("empty month should render nothing")
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{25 * time.Minute, "25:00"},
		{90 * time.Second, "01:30"},
		{1500 * time.Millisecond, "00:02"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.d); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

type chanSender struct {
	got chan tea.Msg
}

func (c *chanSender) Send(msg tea.Msg) { c.got <- msg }

func TestRendererDeliversLatest(t *testing.T) {
	s := &chanSender{got: make(chan tea.Msg)}
	r := NewRenderer(s)
	defer r.Stop()

	r.Render(controller.Snapshot{Today: 1})
	first := recv(t, s.got)
	if first.Today != 1 {
		t.Fatalf("first snapshot Today = %d, want 1", first.Today)
	}

	r.Render(controller.Snapshot{Today: 2})
	r.Render(controller.Snapshot{Today: 3})

	// Snapshot 2 may or may not be delivered; 3 always is and comes last.
	last := recv(t, s.got)
	if last.Today == 2 {
		last = recv(t, s.got)
	}
	if last.Today != 3 {
		t.Errorf("last snapshot Today = %d, want 3", last.Today)
	}
}

func TestRendererNeverBlocks(t *testing.T) {
	s := &chanSender{got: make(chan tea.Msg)}
	r := NewRenderer(s)
	defer r.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			r.Render(controller.Snapshot{Today: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Render blocked on a stalled program")
	}
}

func TestRendererStopIdempotent(t *testing.T) {
	r := NewRenderer(&chanSender{got: make(chan tea.Msg, 8)})
	r.Stop()
	r.Stop()
}

func recv(t *testing.T, ch <-chan tea.Msg) controller.Snapshot {
	t.Helper()
	select {
	case msg := <-ch:
		return controller.Snapshot(msg.(snapshotMsg))
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
	return controller.Snapshot{}
}
