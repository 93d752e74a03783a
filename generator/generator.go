// Package generator runs the whole pipeline for one entry: load the
// source, pick the command function, transform its signature, render the
// wrapper and deliver it.
package generator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/teranos/tscli/am"
	"github.com/teranos/tscli/codegen"
	"github.com/teranos/tscli/emit"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
	"github.com/teranos/tscli/render"
	"github.com/teranos/tscli/resolver"
	"github.com/teranos/tscli/transform"
	"github.com/teranos/tscli/typemodel"
)

// StdinEntry is the entry argument that reads source from standard input.
const StdinEntry = "-"

// IsStdin reports whether entry selects standard input.
func IsStdin(entry string) bool {
	return entry == "" || entry == StdinEntry
}

// Generator turns TypeScript command functions into CLI wrappers.
type Generator struct {
	cfg      *am.Config
	fs       afero.Fs
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	cwd      string
	confirm  emit.Confirmer
	reporter transform.Reporter
	command  []string
	debounce time.Duration
	notify   func(*emit.Envelope, error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithFs reads sources and writes output through fs.
func WithFs(fs afero.Fs) Option {
	return func(g *Generator) { g.fs = fs }
}

func WithStdin(r io.Reader) Option {
	return func(g *Generator) { g.stdin = r }
}

func WithStdout(w io.Writer) Option {
	return func(g *Generator) { g.stdout = w }
}

func WithStderr(w io.Writer) Option {
	return func(g *Generator) { g.stderr = w }
}

// WithWorkingDir sets the directory relative entries and standard input
// resolve against.
func WithWorkingDir(dir string) Option {
	return func(g *Generator) { g.cwd = dir }
}

// WithConfirm replaces the interactive overwrite prompt.
func WithConfirm(c emit.Confirmer) Option {
	return func(g *Generator) { g.confirm = c }
}

// WithReporter receives non-fatal findings instead of the global logger.
func WithReporter(r transform.Reporter) Option {
	return func(g *Generator) { g.reporter = r }
}

// WithCommand records the argument vector shown in the verbose summary.
func WithCommand(args []string) Option {
	return func(g *Generator) { g.command = args }
}

// WithDebounce sets how long watch mode waits for changes to settle.
func WithDebounce(d time.Duration) Option {
	return func(g *Generator) { g.debounce = d }
}

// WithNotify is called after every watch mode run.
func WithNotify(fn func(*emit.Envelope, error)) Option {
	return func(g *Generator) { g.notify = fn }
}

// New creates a Generator for cfg. A nil cfg uses the defaults.
func New(cfg *am.Config, opts ...Option) *Generator {
	if cfg == nil {
		cfg = am.Default()
	}
	g := &Generator{
		cfg:      cfg,
		fs:       afero.NewOsFs(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			g.cwd = wd
		}
	}
	if g.reporter == nil {
		g.reporter = logger.Named("generator")
	}
	return g
}

// Build is the generated code for one entry, before delivery.
type Build struct {
	Source      string // entry as given, "-" for standard input
	Destination string // absolute, empty for stdout
	Code        string
	Files       []string // source files the result was derived from
}

// Generate builds entry and delivers the result. A declined overwrite
// returns an error marked errors.ErrCanceled.
func (g *Generator) Generate(ctx context.Context, entry string) (*emit.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := g.Build(entry)
	if err != nil {
		return nil, err
	}
	return g.emit(b, g.cfg.Force)
}

// Build runs the pipeline for entry without writing anything.
func (g *Generator) Build(entry string) (*Build, error) {
	prog := typemodel.NewProgram(g.fs)
	opts := g.renderOptions()

	var (
		unit *typemodel.Unit
		base string
		err  error
	)
	if IsStdin(entry) {
		entry = StdinEntry
		src, rerr := io.ReadAll(g.stdin)
		if rerr != nil {
			return nil, errors.Wrap(rerr, "failed to read standard input")
		}
		unit, err = prog.AddSource(filepath.Join(g.cwd, typemodel.StdinName), string(src))
		if err != nil {
			return nil, err
		}
		base = g.cwd
		opts.Embedded = unit
		opts.LibPath = g.libraryPath()
	} else {
		unit, err = prog.Load(g.abs(entry))
		if err != nil {
			return nil, err
		}
		base = unit.Dir()
	}

	fn, err := resolver.Resolve(unit)
	if err != nil {
		return nil, err
	}
	logger.Debugw("Resolved command function", logger.FieldFile, unit.Path, logger.FieldFunction, fn.Name)

	res, err := transform.Command(unit, fn, g.reporter)
	if err != nil {
		return nil, err
	}

	b := &Build{Source: entry, Destination: g.destination(base)}
	if b.Destination != "" {
		opts.OutputDir = filepath.Dir(b.Destination)
	}
	out, err := render.Render(res, opts)
	if err != nil {
		return nil, err
	}
	b.Code = codegen.Print(out)

	for _, u := range prog.Units() {
		if !u.Virtual {
			b.Files = append(b.Files, u.Path)
		}
	}
	return b, nil
}

func (g *Generator) emit(b *Build, force bool) (*emit.Envelope, error) {
	env, err := emit.Emit(
		emit.Output{Source: b.Source, Destination: b.Destination, Code: b.Code},
		emit.Options{
			Force:   force,
			JSON:    g.cfg.JSON,
			Color:   g.cfg.Color,
			JS:      g.cfg.JS,
			Verbose: g.cfg.Verbose,
			Command: g.command,
			Fs:      g.fs,
			Stdout:  g.stdout,
			Stderr:  g.stderr,
			Confirm: g.confirm,
		},
	)
	if err != nil {
		return nil, err
	}
	target := b.Destination
	if target == "" {
		target = "stdout"
	}
	logger.Infow("Generated CLI wrapper", logger.FieldFile, b.Source, logger.FieldOutput, target)
	return env, nil
}

func (g *Generator) renderOptions() render.Options {
	return render.Options{
		Lib:          g.cfg.Lib,
		FunctionName: g.cfg.FunctionName,
		Async:        g.cfg.AsyncFunction,
		Strict:       g.cfg.Strict,
		Help:         g.cfg.Help,
		HelpAlias:    g.cfg.HelpAlias,
		Version:      g.cfg.Version,
	}
}

func (g *Generator) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(g.cwd, path)
}

// destination resolves the configured output against base.
func (g *Generator) destination(base string) string {
	out := g.cfg.Output
	if out == "" {
		return ""
	}
	if filepath.IsAbs(out) {
		return filepath.Clean(out)
	}
	return filepath.Join(base, out)
}
