package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Backends lists the selectable backend names in prompt order.
var Backends = []string{"json", "sqlite", "postgres"}

var ErrUnknownBackend = errors.New("unknown backend")

// ParseChoice resolves a prompt answer, either a 1-based index into Backends
// or a backend name.
func ParseChoice(answer string) (string, error) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(Backends) {
			return "", fmt.Errorf("%w: choice %d out of range 1-%d", ErrUnknownBackend, n, len(Backends))
		}
		return Backends[n-1], nil
	}
	for _, b := range Backends {
		if b == answer {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, answer)
}

// Menu renders the numbered backend list shown at startup.
func Menu() string {
	var b strings.Builder
	for i, name := range Backends {
		fmt.Fprintf(&b, "%d) %s\n", i+1, name)
	}
	return b.String()
}

type Options struct {
	DataDir     string
	PostgresDSN string
}

// Open constructs the named backend.
func Open(name string, opts Options) (Backend, error) {
	switch name {
	case "json":
		return NewJSON(opts.DataDir)
	case "sqlite":
		return NewSQLite(filepath.Join(opts.DataDir, SQLiteFile))
	case "postgres":
		return NewPostgres(opts.PostgresDSN)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
