// Package emit delivers generated code: to stdout, optionally highlighted
// or wrapped in a JSON envelope, or to a file after an overwrite check.
package emit

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/teranos/tscli/codegen"
	"github.com/teranos/tscli/display"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
	"github.com/teranos/tscli/version"
)

// Output is the result of one generation run.
type Output struct {
	Source      string // entry path, or "-" for standard input
	Destination string // empty for stdout
	Code        string // TypeScript
}

// Options control delivery.
type Options struct {
	Force   bool
	JSON    bool
	Color   bool
	JS      bool
	Verbose int

	// Command is the argument vector that reproduces the run. Printed in
	// the verbose summary.
	Command []string

	Fs      afero.Fs
	Stdout  io.Writer
	Stderr  io.Writer
	Confirm Confirmer
}

func (o *Options) defaults() {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Confirm == nil {
		o.Confirm = TerminalConfirm
	}
}

// Envelope is printed instead of the bare code with --json.
type Envelope struct {
	Source      string     `json:"source"`
	Destination string     `json:"destination,omitempty"`
	Language    string     `json:"language"`
	Code        string     `json:"code"`
	Formatting  Formatting `json:"formatting"`
	Written     []string   `json:"written"`
	Generator   string     `json:"generator"`
}

// Formatting describes how the code was printed.
type Formatting struct {
	Indent     int    `json:"indent"`
	Quote      string `json:"quote"`
	Semicolons bool   `json:"semicolons"`
	Width      int    `json:"width"`
}

const (
	LanguageTypeScript = "typescript"
	LanguageJavaScript = "javascript"
)

// Emit delivers out. A declined overwrite returns an error marked
// errors.ErrCanceled and writes nothing.
func Emit(out Output, opts Options) (*Envelope, error) {
	opts.defaults()

	env := &Envelope{
		Source:      out.Source,
		Destination: out.Destination,
		Language:    LanguageTypeScript,
		Code:        out.Code,
		Formatting:  Formatting{Indent: 2, Quote: "double", Semicolons: true, Width: codegen.DefaultWidth},
		Written:     []string{},
		Generator:   version.Get().String(),
	}

	var js string
	if opts.JS {
		var err error
		if js, err = Transpile(out.Code, out.Source); err != nil {
			return nil, err
		}
	}

	if logger.ShouldOutput(opts.Verbose, logger.OutputSummary) {
		Summary(opts.Stderr, out, opts.Command)
	}

	if out.Destination == "" {
		if opts.JS {
			env.Language, env.Code = LanguageJavaScript, js
		}
		return env, writeStdout(env, opts)
	}

	files := targets(out.Destination, out.Code, js, opts.JS)
	if err := confirmOverwrite(files, opts); err != nil {
		return nil, err
	}
	written, err := writeFiles(opts.Fs, files)
	if err != nil {
		return nil, err
	}
	env.Written = written

	if opts.JSON {
		return env, printEnvelope(opts.Stdout, env)
	}
	for _, path := range env.Written {
		pterm.Success.WithWriter(opts.Stderr).Printfln("CLI script created at %s", path)
	}
	return env, nil
}

func writeStdout(env *Envelope, opts Options) error {
	if opts.JSON {
		return printEnvelope(opts.Stdout, env)
	}
	if opts.Color {
		return Highlight(opts.Stdout, env.Code, env.Language)
	}
	_, err := io.WriteString(opts.Stdout, env.Code)
	return errors.Wrap(err, "failed to write generated code")
}

func printEnvelope(w io.Writer, env *Envelope) error {
	data, err := display.MarshalJSON(env)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON envelope")
	}
	_, err = w.Write(append(data, '\n'))
	return errors.Wrap(err, "failed to write JSON envelope")
}

type target struct {
	path    string
	content string
}

// targets lists the files a run writes. With --js a sibling .js file is
// written next to the TypeScript output, or in its place when the
// destination already ends in .js.
func targets(dest, code, js string, withJS bool) []target {
	if !withJS {
		return []target{{dest, code}}
	}
	ext := filepath.Ext(dest)
	if ext == ".js" || ext == ".mjs" || ext == ".cjs" {
		return []target{{dest, js}}
	}
	return []target{{dest, code}, {strings.TrimSuffix(dest, ext) + ".js", js}}
}

func confirmOverwrite(files []target, opts Options) error {
	var existing []string
	for _, f := range files {
		ok, err := afero.Exists(opts.Fs, f.path)
		if err != nil {
			return errors.Wrapf(err, "failed to check %s", f.path)
		}
		if ok {
			existing = append(existing, f.path)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if opts.Force {
		logger.Infow("Overwriting existing file", logger.FieldOutput, strings.Join(existing, ", "))
		return nil
	}

	question := "File already exists, overwrite it?"
	if len(existing) > 1 {
		question = "Files already exist, overwrite them?"
	}
	ok, err := opts.Confirm(question + " (" + strings.Join(existing, ", ") + ")")
	if err != nil {
		return errors.Wrap(err, "overwrite confirmation failed")
	}
	if !ok {
		return errors.Mark(errors.New("Canceled"), errors.ErrCanceled)
	}
	return nil
}

// stagingSuffix marks a file written beside its destination and renamed
// into place once every file of the run is on disk.
const stagingSuffix = ".tscli-tmp"

// writeFiles stages every file before renaming any of them, so a failed
// write leaves the previous outputs untouched.
func writeFiles(fs afero.Fs, files []target) ([]string, error) {
	staged := make([]string, 0, len(files))
	discard := func(paths []string) {
		for _, p := range paths {
			if err := fs.Remove(p); err != nil && !os.IsNotExist(err) {
				logger.Warnw("Failed to remove staged file", logger.FieldOutput, p, logger.FieldError, err.Error())
			}
		}
	}

	for _, f := range files {
		tmp := f.path + stagingSuffix
		if err := writeFile(fs, tmp, f.content); err != nil {
			discard(append(staged, tmp))
			return nil, err
		}
		staged = append(staged, tmp)
	}

	written := make([]string, 0, len(files))
	for i, f := range files {
		if err := fs.Rename(staged[i], f.path); err != nil {
			discard(staged[i:])
			return nil, errors.Wrapf(err, "failed to move %s into place", f.path)
		}
		written = append(written, f.path)
		logger.Debugw("Wrote generated file", logger.FieldOutput, f.path, logger.FieldCount, len(f.content))
	}
	return written, nil
}

func writeFile(fs afero.Fs, path, content string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
