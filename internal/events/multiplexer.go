// Package events merges keyboard input and periodic ticks into the single
// ordered stream consumed by the controller loop.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTickRate is the interval between ticks when no rate is configured.
const DefaultTickRate = time.Second

type Kind int

const (
	Input Kind = iota
	Tick
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Tick:
		return "tick"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event is either a key press (Kind == Input) or a Tick.
type Event struct {
	Kind Kind
	Key  tea.KeyMsg
}

func KeyEvent(k tea.KeyMsg) Event { return Event{Kind: Input, Key: k} }
func TickEvent() Event            { return Event{Kind: Tick} }

// Multiplexer polls a key source with a timeout equal to the time left until
// the next tick. Input is forwarded immediately and does not reset the tick
// clock; a timeout emits a Tick and resets it.
type Multiplexer struct {
	keys     <-chan tea.KeyMsg
	tickRate time.Duration
	logger   *slog.Logger
}

func NewMultiplexer(keys <-chan tea.KeyMsg, tickRate time.Duration, logger *slog.Logger) *Multiplexer {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Multiplexer{keys: keys, tickRate: tickRate, logger: logger}
}

// Run produces events into out until the key source closes or ctx is done.
// out is closed on return, including when the producer panics.
func (m *Multiplexer) Run(ctx context.Context, out chan<- Event) {
	defer close(out)
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("event multiplexer panicked", "panic", r)
		}
	}()

	lastTick := time.Now()
	wait := time.NewTimer(m.tickRate)
	defer wait.Stop()

	for {
		timeout := m.tickRate - time.Since(lastTick)
		if timeout < 0 {
			timeout = 0
		}
		wait.Reset(timeout)

		select {
		case <-ctx.Done():
			return
		case k, ok := <-m.keys:
			if !ok {
				m.logger.Debug("key source closed")
				return
			}
			if !send(ctx, out, KeyEvent(k)) {
				return
			}
			if time.Since(lastTick) >= m.tickRate {
				if !send(ctx, out, TickEvent()) {
					return
				}
				lastTick = time.Now()
			}
		case <-wait.C:
			if !send(ctx, out, TickEvent()) {
				return
			}
			lastTick = time.Now()
		}
	}
}

func send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
