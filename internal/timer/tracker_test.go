package timer

import (
	"testing"
	"time"

	"github.com/sadopc/pomorks/internal/session"
)

var t0 = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

func TestTrackerStopped(t *testing.T) {
	var tr Tracker
	limit := session.Initial().Limit(session.UnitFast)

	if tr.Running() {
		t.Fatal("zero tracker should be stopped")
	}
	if tr.Expired(t0.Add(time.Hour), limit) {
		t.Fatal("stopped tracker must never expire")
	}
	if tr.CheckExpired(t0.Add(time.Hour), limit) {
		t.Fatal("stopped tracker must never fire")
	}
	if tr.Elapsed(t0) != 0 {
		t.Fatal("stopped tracker should report 0 elapsed")
	}
	if tr.Remaining(t0, limit) != limit {
		t.Fatal("stopped tracker should report the full limit remaining")
	}
}

func TestTrackerExpiry(t *testing.T) {
	unit := session.UnitFast
	limit := session.State{Kind: session.Work, Count: 1}.Limit(unit)

	var tr Tracker
	tr.Start(t0, "task")

	if tr.CheckExpired(t0.Add(24*unit), limit) {
		t.Fatal("24 units must not expire a 25 unit work state")
	}
	if got := tr.Remaining(t0.Add(24*unit), limit); got != unit {
		t.Fatalf("remaining = %v, want %v", got, unit)
	}
	if !tr.CheckExpired(t0.Add(25*unit), limit) {
		t.Fatal("25 units should expire")
	}
	if tr.CheckExpired(t0.Add(26*unit), limit) {
		t.Fatal("expiry must fire only once per started timer")
	}
	if !tr.Expired(t0.Add(26*unit), limit) {
		t.Fatal("Expired stays true after firing")
	}
}

func TestTrackerLateTickExpires(t *testing.T) {
	limit := 5 * time.Second
	var tr Tracker
	tr.Start(t0, "")
	if !tr.CheckExpired(t0.Add(time.Minute), limit) {
		t.Fatal("a tick well past the limit should expire")
	}
}

func TestTrackerRestartRearms(t *testing.T) {
	limit := 5 * time.Second
	var tr Tracker
	tr.Start(t0, "a")
	tr.CheckExpired(t0.Add(limit), limit)

	tr.Start(t0.Add(time.Minute), "b")
	if tr.TaskID() != "b" {
		t.Fatalf("task id = %q, want b", tr.TaskID())
	}
	if !tr.CheckExpired(t0.Add(time.Minute+limit), limit) {
		t.Fatal("a new timer should fire again")
	}
}

func TestTrackerStop(t *testing.T) {
	var tr Tracker
	tr.Start(t0, "a")
	tr.Stop()
	if tr.Running() || tr.TaskID() != "" || !tr.StartedAt().IsZero() {
		t.Fatalf("stop should reset the tracker: %+v", tr)
	}
}

func TestTrackerRestore(t *testing.T) {
	tr := Restore(t0, "abc")
	if !tr.Running() || tr.TaskID() != "abc" || !tr.StartedAt().Equal(t0) {
		t.Fatalf("restore mismatch: %+v", tr)
	}
}

func TestTrackerClockSkew(t *testing.T) {
	var tr Tracker
	tr.Start(t0, "")
	if tr.Elapsed(t0.Add(-time.Second)) != 0 {
		t.Fatal("elapsed should clamp at zero when the clock moves backwards")
	}
}

func TestTrackerProgress(t *testing.T) {
	limit := 10 * time.Second
	var tr Tracker
	if tr.Progress(t0, limit) != 0 {
		t.Fatal("stopped progress should be 0")
	}
	tr.Start(t0, "")
	if got := tr.Progress(t0.Add(5*time.Second), limit); got != 0.5 {
		t.Fatalf("progress = %v, want 0.5", got)
	}
	if got := tr.Progress(t0.Add(time.Minute), limit); got != 1 {
		t.Fatalf("progress = %v, want 1", got)
	}
}
