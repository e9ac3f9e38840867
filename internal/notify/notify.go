// Package notify tells the user when a session period ends.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/sadopc/pomorks/internal/session"
)

const title = "pomorks"

// Notifier delivers the end-of-period notification for a state.
type Notifier interface {
	Notify(state session.State) error
}

// Message is the notification body for a finished state.
func Message(state session.State) string {
	return state.Name() + " is finished"
}

// CommandRunner abstracts command execution for testing
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs real commands using os/exec
type ExecRunner struct{}

// Run executes the command with a 5-second timeout
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

// Desktop shows a desktop notification via notify-send on Linux and
// osascript on macOS.
type Desktop struct {
	runner CommandRunner
	goos   string
}

func NewDesktop(runner CommandRunner) *Desktop {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Desktop{runner: runner, goos: runtime.GOOS}
}

func (d *Desktop) Notify(state session.State) error {
	name, args, err := command(d.goos, Message(state))
	if err != nil {
		return err
	}
	return d.runner.Run(context.Background(), name, args...)
}

func command(goos, body string) (string, []string, error) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s sound name \"Glass\"",
			strconv.Quote(body), strconv.Quote(title))
		return "osascript", []string{"-e", script}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send", []string{"--app-name=" + title, title, body}, nil
	}
	return "", nil, fmt.Errorf("desktop notifications unsupported on %s", goos)
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(session.State) error { return nil }
