package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/pomorks/internal/controller"
)

// sender is the part of *tea.Program the Renderer needs.
type sender interface {
	Send(msg tea.Msg)
}

// Renderer implements controller.Renderer. Render stores the snapshot in a
// one-slot mailbox and returns; a pump goroutine forwards it to the program.
// Intermediate snapshots are dropped when the terminal falls behind, the
// latest one always gets through.
type Renderer struct {
	program sender
	latest  chan controller.Snapshot
	done    chan struct{}
	once    sync.Once
}

func NewRenderer(p sender) *Renderer {
	r := &Renderer{
		program: p,
		latest:  make(chan controller.Snapshot, 1),
		done:    make(chan struct{}),
	}
	go r.pump()
	return r
}

// Render must be called from a single goroutine.
func (r *Renderer) Render(s controller.Snapshot) {
	select {
	case r.latest <- s:
		return
	default:
	}
	// Replace the undelivered snapshot.
	select {
	case <-r.latest:
	default:
	}
	select {
	case r.latest <- s:
	default:
	}
}

func (r *Renderer) pump() {
	for {
		select {
		case <-r.done:
			return
		case s := <-r.latest:
			r.program.Send(snapshotMsg(s))
		}
	}
}

// Stop ends the pump. It does not wait for a Send blocked on a program that
// is no longer running.
func (r *Renderer) Stop() {
	r.once.Do(func() { close(r.done) })
}
