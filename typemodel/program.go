// Package typemodel answers the questions the generator asks about
// TypeScript declarations: which unit declares a name, whether a
// declaration is exported, what kind of type an annotation denotes and
// which documentation is attached to it. All queries are read-only.
package typemodel

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
	"github.com/teranos/tscli/tsparse"
)

// StdinName is the file name given to source read from standard input.
const StdinName = "__STDIN__.ts"

// Program is the set of source units loaded for one generation run.
type Program struct {
	fs    afero.Fs
	units map[string]*Unit
	order []*Unit
}

// Unit is one parsed source file.
type Unit struct {
	Path    string // absolute path
	File    *tsparse.File
	Virtual bool // not backed by a file on disk
	prog    *Program
}

// NewProgram creates an empty program reading from fs.
func NewProgram(fs afero.Fs) *Program {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Program{fs: fs, units: make(map[string]*Unit)}
}

// Fs returns the filesystem the program reads from.
func (p *Program) Fs() afero.Fs {
	return p.fs
}

// Units returns loaded units in load order.
func (p *Program) Units() []*Unit {
	return p.order
}

// Load parses the file at path, or returns the cached unit.
func (p *Program) Load(path string) (*Unit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}
	if u, ok := p.units[abs]; ok {
		return u, nil
	}
	data, err := afero.ReadFile(p.fs, abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(errors.Wrapf(err, "source file %s not found", path), "check the entry path")
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return p.add(abs, string(data), false)
}

// AddSource registers in-memory source under path. Relative imports in
// the source resolve against path's directory.
func (p *Program) AddSource(path, source string) (*Unit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}
	return p.add(abs, source, true)
}

func (p *Program) add(abs, source string, virtual bool) (*Unit, error) {
	file, err := tsparse.Parse(abs, source)
	if err != nil {
		return nil, err
	}
	u := &Unit{Path: abs, File: file, Virtual: virtual, prog: p}
	p.units[abs] = u
	p.order = append(p.order, u)
	logger.Debugw("Loaded source unit", logger.FieldFile, abs, logger.FieldCount, len(file.Decls))
	return u, nil
}

// Dir returns the directory containing the unit.
func (u *Unit) Dir() string {
	return filepath.Dir(u.Path)
}

var sourceExts = []string{".d.ts", ".d.mts", ".d.cts", ".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

// TrimSourceExt removes a TypeScript or JavaScript extension from path.
func TrimSourceExt(path string) string {
	for _, ext := range sourceExts {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

// BaseName returns the unit's file name without its extension.
func (u *Unit) BaseName() string {
	return filepath.Base(TrimSourceExt(u.Path))
}

// QualifiedName returns the `"<path without extension>".Name` form used
// in diagnostics.
func (u *Unit) QualifiedName(name string) string {
	return `"` + filepath.ToSlash(TrimSourceExt(u.Path)) + `".` + name
}

var jsToTS = map[string][]string{
	".js":  {".ts", ".tsx", ".d.ts"},
	".jsx": {".tsx"},
	".mjs": {".mts", ".d.mts"},
	".cjs": {".cts", ".d.cts"},
}

// ResolveModule finds the unit a relative module specifier refers to.
func (u *Unit) ResolveModule(spec string) (*Unit, error) {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") && !strings.HasPrefix(spec, "/") && spec != "." && spec != ".." {
		return nil, errors.Mark(
			errors.WithHint(
				errors.Newf("cannot inspect declarations from package module %q", spec),
				"declare the type in a local file and import it with a relative path",
			),
			errors.ErrUnresolved,
		)
	}

	base := spec
	if !filepath.IsAbs(base) {
		base = filepath.Join(u.Dir(), spec)
	}

	var candidates []string
	if exts, ok := jsToTS[filepath.Ext(base)]; ok {
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		for _, ext := range exts {
			candidates = append(candidates, stem+ext)
		}
	}
	candidates = append(candidates, base)
	for _, ext := range []string{".ts", ".tsx", ".d.ts", ".mts", ".cts"} {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range []string{".ts", ".tsx", ".d.ts"} {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}

	for _, c := range candidates {
		if loaded, ok := u.prog.units[c]; ok {
			return loaded, nil
		}
		info, err := u.prog.fs.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		return u.prog.Load(c)
	}

	return nil, errors.Mark(
		errors.Newf("cannot find module %q imported from %s", spec, u.Path),
		errors.ErrUnresolved,
	)
}
