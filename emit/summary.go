package emit

import (
	"io"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
)

// Summary prints where the code comes from and goes to, and the command
// line that reproduces the run.
func Summary(w io.Writer, out Output, command []string) {
	to := out.Destination
	if to == "" {
		to = "stdout"
	}
	info := pterm.Info.WithWriter(w)
	info.Printfln("from: %s", out.Source)
	info.Printfln("to:   %s", to)
	if len(command) > 0 {
		info.Printfln("reproduce: %s", shellquote.Join(command...))
	}
}
