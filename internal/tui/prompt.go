package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/sadopc/pomorks/internal/store"
)

// PromptBackend asks which persistence backend to use. It runs before the
// alternate screen is entered, so the form is plain line-oriented text.
func PromptBackend(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, store.Menu())

	var answer string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Select a backend").
				Description("number or name").
				Value(&answer),
		),
	).WithAccessible(true).WithInput(in).WithOutput(out)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("backend prompt: %w", err)
	}
	return store.ParseChoice(answer)
}
