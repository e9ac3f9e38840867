package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/pomorks/internal/config"
	"github.com/sadopc/pomorks/internal/controller"
	"github.com/sadopc/pomorks/internal/events"
	"github.com/sadopc/pomorks/internal/logging"
	"github.com/sadopc/pomorks/internal/notify"
	"github.com/sadopc/pomorks/internal/store"
	"github.com/sadopc/pomorks/internal/tui"
)

// keyBuffer bounds the key presses queued between the terminal and the loop.
const keyBuffer = 64

func main() {
	if err := run(os.Stdin, os.Stdout, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(stdin io.Reader, stdout io.Writer, getenv func(string) string) error {
	cfg, err := config.LoadConfig(config.DefaultPath())
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	logger, logFile, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	backend := cfg.Backend
	if backend == "" {
		backend, err = tui.PromptBackend(stdin, stdout)
		if err != nil {
			return err
		}
	}

	s, err := store.Open(backend, store.Options{DataDir: cfg.DataDir, PostgresDSN: cfg.Postgres.DSN})
	if err != nil {
		return fmt.Errorf("opening %s backend: %w", backend, err)
	}
	defer s.Close()
	logger.Info("started", "backend", s.Name(), "dataDir", cfg.DataDir, "fast", cfg.Timer.FastMode)

	loaded, err := load(s)
	if err != nil {
		return err
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notifications.Enabled {
		notifier = notify.NewDesktop(nil)
	}

	return loop(cfg, s, notifier, loaded, logger)
}

func load(s store.Backend) (controller.Loaded, error) {
	tasks, _, err := s.ReadAllTasks()
	if err != nil {
		return controller.Loaded{}, fmt.Errorf("reading tasks: %w", err)
	}
	dealing, err := s.ReadTaskDealing()
	if err != nil {
		return controller.Loaded{}, fmt.Errorf("reading running task: %w", err)
	}
	logs, err := s.ReadAllLogs()
	if err != nil {
		return controller.Loaded{}, fmt.Errorf("reading task log: %w", err)
	}
	return controller.Loaded{Tasks: tasks, Dealing: dealing, Logs: logs}, nil
}

// loop wires the terminal, the event multiplexer and the controller and
// blocks until the user quits.
func loop(cfg *config.Config, s store.Backend, n notify.Notifier, loaded controller.Loaded, logger *slog.Logger) error {
	keys := make(chan tea.KeyMsg, keyBuffer)
	evs := make(chan events.Event)

	p := tea.NewProgram(tui.NewModel(keys), tea.WithAltScreen())
	renderer := tui.NewRenderer(p)
	defer renderer.Stop()

	c := controller.New(controller.Options{
		Store:     s,
		Notifier:  n,
		Renderer:  renderer,
		Logger:    logger,
		Unit:      cfg.TimeUnit(),
		ExportDir: cfg.ExportDir,
	}, loaded)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mux := events.NewMultiplexer(keys, cfg.TickInterval(), logger)
	go mux.Run(ctx, evs)

	done := make(chan error, 1)
	go func() {
		done <- c.Run(evs)
		p.Quit()
	}()

	_, runErr := p.Run()

	cancel()
	close(keys)
	flushErr := <-done
	if flushErr != nil {
		logger.Error("final flush failed", "error", flushErr)
	}
	return errors.Join(runErr, flushErr)
}
