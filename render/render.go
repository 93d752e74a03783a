// Package render turns a transformed command into the wrapper program:
// the library import, one import per referenced source unit and a
// function that registers the command with yargs.
package render

import (
	"path/filepath"
	"strings"

	"github.com/teranos/tscli/codegen"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/transform"
	"github.com/teranos/tscli/tsparse"
	"github.com/teranos/tscli/typemodel"
)

// Options control the shape of the wrapper.
type Options struct {
	Lib          string // parser library module name
	LibPath      string // module specifier for the library import, Lib when empty
	FunctionName string
	Async        bool
	Strict       bool
	Help         bool
	HelpAlias    bool
	Version      bool

	// OutputDir is the directory of the generated file. Import specifiers
	// are relative to it. Defaults to the command's directory.
	OutputDir string

	// Embedded is the unit whose source is written into the generated
	// file instead of being imported. Set for standard input.
	Embedded *typemodel.Unit
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Lib:          "yargs",
		FunctionName: "main",
		Async:        true,
		Strict:       true,
		Help:         true,
		HelpAlias:    true,
		Version:      true,
	}
}

// handler-local bindings a positional may not shadow
var handlerNames = map[string]bool{"_": true, "$0": true, "args": true, "options": true}

// Render builds the wrapper program for res.
func Render(res *transform.Result, opts Options) (*codegen.Program, error) {
	if opts.Lib == "" {
		opts.Lib = "yargs"
	}
	if opts.FunctionName == "" {
		opts.FunctionName = "main"
	}
	if !codegen.IsIdentifier(opts.FunctionName) {
		return nil, errors.Newf("function name %q is not a valid identifier", opts.FunctionName)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = res.Command.Unit.Dir()
	}
	r := &renderer{res: res, opts: opts, lib: codegen.Identifier(opts.Lib)}

	if err := r.check(); err != nil {
		return nil, err
	}

	libModule := opts.LibPath
	if libModule == "" {
		libModule = opts.Lib
	}
	stmts := []codegen.Stmt{&codegen.Import{Namespace: r.lib, Module: libModule}}
	imports, err := r.imports()
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, imports...)

	wrapper := r.wrapper()
	if opts.Embedded != nil {
		wrapper.Export, wrapper.Default = false, false
		stmts = append(stmts,
			&codegen.Verbatim{Text: opts.Embedded.File.Source},
			wrapper,
			&codegen.ExprStmt{X: &codegen.Call{Fun: codegen.Id(wrapper.Name)}},
		)
	} else {
		stmts = append(stmts, wrapper)
	}
	return &codegen.Program{Stmts: stmts}, nil
}

type renderer struct {
	res  *transform.Result
	opts Options
	lib  string
}

// check rejects names that would collide in the generated file.
func (r *renderer) check() error {
	cmd := r.res.Command
	if cmd.Form == transform.Local && !r.embeds(cmd.Unit) {
		return errors.WithHintf(
			errors.Mark(errors.Newf("The command function %q is not exported", cmd.Name), errors.ErrNotExported),
			"export %s from %s so the generated file can import it", cmd.Name, cmd.Unit.Path,
		)
	}
	if cmd.Decl.DeclName() == "" && r.embeds(cmd.Unit) {
		return errors.WithHint(
			errors.Mark(errors.New("The command function read from standard input has no name"), errors.ErrUnresolved),
			"name the function so the generated wrapper can call it",
		)
	}

	for _, p := range r.res.Positionals {
		if handlerNames[p.Name] {
			return errors.WithHint(
				errors.Mark(errors.Newf("Positional %q collides with a name the handler binds", p.Name), errors.ErrNameConflict),
				"rename the parameter",
			)
		}
	}

	taken := map[string]string{}
	for _, ref := range r.res.References.All() {
		taken[ref.Name] = ref.QualifiedName()
	}
	for _, name := range []string{r.lib, r.opts.FunctionName} {
		if q, ok := taken[name]; ok {
			return errors.WithHint(
				errors.Mark(errors.Newf("Name conflict:\n%q is both generated and exported from: %s", name, q), errors.ErrNameConflict),
				"rename the declaration or choose another --function-name or --lib",
			)
		}
	}
	if r.lib == r.opts.FunctionName {
		return errors.Mark(errors.Newf("Name conflict:\n%q names both the library and the wrapper", r.lib), errors.ErrNameConflict)
	}

	if e := r.opts.Embedded; e != nil {
		for _, name := range []string{r.lib, r.opts.FunctionName} {
			if _, ok, _ := e.Lookup(name); ok {
				return errors.WithHint(
					errors.Mark(errors.Newf("Name conflict:\n%q is both generated and declared in %s", name, e.Path), errors.ErrNameConflict),
					"rename the declaration or choose another --function-name or --lib",
				)
			}
		}
	}
	return nil
}

func (r *renderer) embeds(u *typemodel.Unit) bool {
	return r.opts.Embedded != nil && r.opts.Embedded == u
}

// imports returns one import per referenced unit, in reference order.
func (r *renderer) imports() ([]codegen.Stmt, error) {
	var out []codegen.Stmt
	for _, entry := range r.res.References.Entries() {
		if r.embeds(entry.Unit) {
			continue
		}
		if entry.Unit.Virtual {
			return nil, errors.Mark(errors.Newf("cannot import from in-memory source %s", entry.Unit.Path), errors.ErrUnresolved)
		}

		imp := &codegen.Import{}
		for _, ref := range entry.Default {
			if r.bound(ref) {
				continue
			}
			imp.Default = ref.Name
			break
		}
		for _, ref := range entry.Named {
			if !r.bound(ref) {
				imp.Named = append(imp.Named, ref.Name)
			}
		}
		if imp.Default == "" && len(imp.Named) == 0 {
			continue
		}
		imp.Module = ModuleSpecifier(r.opts.OutputDir, entry.Unit.Path)
		out = append(out, imp)
	}
	return out, nil
}

// bound reports whether the embedded source already binds ref's name to
// the same declaration.
func (r *renderer) bound(ref transform.Reference) bool {
	if r.opts.Embedded == nil {
		return false
	}
	sym, ok, err := r.opts.Embedded.Lookup(ref.Name)
	if err != nil || !ok {
		return false
	}
	return containsDecl(sym.Decls, ref.Decl)
}

func containsDecl(decls []tsparse.Decl, d tsparse.Decl) bool {
	for _, x := range decls {
		if x == d {
			return true
		}
	}
	return false
}

// ModuleSpecifier returns the import specifier for the source file at
// path as seen from dir: "./x", "../lib/x", or a directory with a
// trailing slash ("./", "../lib/") for index files.
func ModuleSpecifier(dir, path string) string {
	rel, err := filepath.Rel(dir, typemodel.TrimSourceExt(path))
	if err != nil {
		rel = typemodel.TrimSourceExt(path)
	}
	rel = filepath.ToSlash(rel)

	if rel == "index" || strings.HasSuffix(rel, "/index") {
		rel = strings.TrimSuffix(rel, "index")
	}
	if strings.HasPrefix(rel, "../") || strings.HasPrefix(rel, "/") {
		return rel
	}
	return "./" + rel
}

func (r *renderer) wrapper() *codegen.Func {
	var chain codegen.Expr = codegen.Invoke(codegen.Id(r.lib), "command",
		codegen.Str(r.usage()),
		codegen.Str(r.res.Description),
		r.builder(),
		r.handler(),
	)
	if r.opts.Strict {
		chain = codegen.Invoke(chain, "strict")
	}
	if r.opts.Help {
		chain = codegen.Invoke(chain, "help")
	}
	if r.opts.HelpAlias {
		chain = codegen.Invoke(chain, "alias", codegen.Str("help"), codegen.Str("h"))
	}
	if r.opts.Version {
		chain = codegen.Invoke(chain, "version")
	}
	argv := codegen.Sel(chain, "argv")

	fn := &codegen.Func{
		Export:     true,
		Default:    true,
		Async:      r.opts.Async,
		Name:       r.opts.FunctionName,
		ReturnType: "void",
	}
	if r.opts.Async {
		fn.ReturnType = "Promise<void>"
		argv = &codegen.Await{X: argv}
	}
	fn.Body = []codegen.Stmt{&codegen.ExprStmt{X: argv}}
	return fn
}

// usage is "$0", then <name> per positional, then [options] when the
// command has options.
func (r *renderer) usage() string {
	parts := []string{"$0"}
	for _, p := range r.res.Positionals {
		parts = append(parts, "<"+p.Name+">")
	}
	if len(r.res.Options) > 0 {
		parts = append(parts, "[options]")
	}
	return strings.Join(parts, " ")
}

func (r *renderer) builder() *codegen.Arrow {
	var chain codegen.Expr = codegen.Id("yargs")
	for _, p := range r.res.Positionals {
		chain = method(chain, p.Call)
	}
	for _, o := range r.res.Options {
		chain = method(chain, o)
	}
	return &codegen.Arrow{Params: []string{"yargs"}, Body: []codegen.Stmt{&codegen.Return{X: chain}}}
}

// method turns a free call f(args) into x.f(args).
func method(x codegen.Expr, call *codegen.Call) codegen.Expr {
	name := call.Fun.(*codegen.Ident).Name
	return codegen.Invoke(x, name, call.Args...)
}

func (r *renderer) handler() *codegen.Arrow {
	names := []string{"_", "$0"}
	var args []codegen.Expr
	for _, p := range r.res.Positionals {
		names = append(names, p.Name)
		args = append(args, codegen.Id(p.Name))
	}
	args = append(args, codegen.Id("options"))

	body := []codegen.Stmt{&codegen.Destructure{Names: names, Rest: "options", Init: codegen.Id("args")}}
	for _, p := range r.res.Positionals {
		body = append(body, &codegen.If{
			Cond: &codegen.Binary{Op: "===", L: &codegen.Keyword{Name: "undefined"}, R: codegen.Id(p.Name)},
			Then: &codegen.Throw{X: &codegen.New{
				Fun:  codegen.Id("TypeError"),
				Args: []codegen.Expr{codegen.Str("Argument " + p.Name + " was required")},
			}},
		})
	}

	var call codegen.Expr = &codegen.Call{Fun: codegen.Id(r.res.Name), Args: args}
	if r.opts.Async {
		call = &codegen.Await{X: call}
	}
	body = append(body, &codegen.ExprStmt{X: call})
	return &codegen.Arrow{Async: r.opts.Async, Params: []string{"args"}, Body: body}
}
