package events

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func startMux(t *testing.T, keys <-chan tea.KeyMsg, rate time.Duration) (<-chan Event, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Event, 16)
	go NewMultiplexer(keys, rate, nil).Run(ctx, out)
	t.Cleanup(cancel)
	return out, cancel
}

func next(t *testing.T, out <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-out:
		require.True(t, ok, "event channel closed early")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestTicksWithoutInput(t *testing.T) {
	keys := make(chan tea.KeyMsg)
	out, _ := startMux(t, keys, 10*time.Millisecond)

	start := time.Now()
	for range 3 {
		assert.Equal(t, Tick, next(t, out).Kind)
	}
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestInputDeliveredInOrder(t *testing.T) {
	keys := make(chan tea.KeyMsg, 3)
	keys <- runeKey('a')
	keys <- runeKey('b')
	keys <- runeKey('c')
	out, _ := startMux(t, keys, time.Hour)

	var got []string
	for len(got) < 3 {
		ev := next(t, out)
		if ev.Kind == Input {
			got = append(got, ev.Key.String())
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestContinuousInputDoesNotStarveTicks(t *testing.T) {
	keys := make(chan tea.KeyMsg)
	out, _ := startMux(t, keys, 20*time.Millisecond)

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			case keys <- runeKey('x'):
				time.Sleep(2 * time.Millisecond)
			}
		}
	}()
	defer close(stop)

	ticks := 0
	deadline := time.After(150 * time.Millisecond)
	for ticks < 2 {
		select {
		case ev := <-out:
			if ev.Kind == Tick {
				ticks++
			}
		case <-deadline:
			t.Fatalf("only %d ticks while typing", ticks)
		}
	}
}

func TestClosingKeysClosesStream(t *testing.T) {
	keys := make(chan tea.KeyMsg)
	out, _ := startMux(t, keys, time.Hour)
	close(keys)

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream not closed after key source closed")
	}
}

func TestCancelClosesStream(t *testing.T) {
	keys := make(chan tea.KeyMsg)
	out, cancel := startMux(t, keys, time.Hour)
	cancel()

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream not closed after cancel")
	}
}

func TestDefaultTickRate(t *testing.T) {
	m := NewMultiplexer(nil, 0, nil)
	assert.Equal(t, DefaultTickRate, m.tickRate)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "input", Input.String())
	assert.Equal(t, "tick", Tick.String())
}
