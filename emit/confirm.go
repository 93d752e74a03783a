package emit

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Confirmer asks a yes/no question.
type Confirmer func(question string) (bool, error)

// TerminalConfirm prompts on the terminal. Without a terminal on stdin
// nobody can answer, so the question is declined.
func TerminalConfirm(question string) (bool, error) {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false, nil
	}
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(question)
}

// Answer returns a Confirmer that always gives ok.
func Answer(ok bool) Confirmer {
	return func(string) (bool, error) { return ok, nil }
}
