package emit

import (
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/teranos/tscli/errors"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// Highlight writes code to w with terminal colours.
func Highlight(w io.Writer, code, language string) error {
	if err := quick.Highlight(w, code, language, highlightFormatter, highlightStyle); err != nil {
		return errors.Wrap(err, "failed to highlight generated code")
	}
	return nil
}
