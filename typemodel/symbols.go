package typemodel

import (
	"github.com/teranos/tscli/tsparse"
)

// Symbol is what a name resolves to: one or more merged declarations in
// their declaring unit, or a whole module bound as a namespace.
type Symbol struct {
	Unit      *Unit
	Decls     []tsparse.Decl
	Namespace *Unit
}

// Decl returns the first declaration, or nil for namespaces.
func (s Symbol) Decl() tsparse.Decl {
	if len(s.Decls) == 0 {
		return nil
	}
	return s.Decls[0]
}

// TypeDecl returns the first declaration usable in a type position.
func (s Symbol) TypeDecl() tsparse.Decl {
	for _, d := range s.Decls {
		switch d.(type) {
		case *tsparse.InterfaceDecl, *tsparse.TypeAliasDecl, *tsparse.EnumDecl:
			return d
		}
	}
	return nil
}

type lookupKey struct {
	unit   *Unit
	name   string
	export bool
}

// Lookup resolves name in the unit's top-level scope, following imports
// to the declaring unit.
func (u *Unit) Lookup(name string) (Symbol, bool, error) {
	return u.lookup(name, make(map[lookupKey]bool))
}

// ResolveExport resolves the export called name ("default" for the
// default export), following re-export chains.
func (u *Unit) ResolveExport(name string) (Symbol, bool, error) {
	return u.resolveExport(name, make(map[lookupKey]bool))
}

func (u *Unit) lookup(name string, seen map[lookupKey]bool) (Symbol, bool, error) {
	key := lookupKey{u, name, false}
	if seen[key] {
		return Symbol{}, false, nil
	}
	seen[key] = true

	if decls := u.File.Lookup(name); len(decls) > 0 {
		return Symbol{Unit: u, Decls: decls}, true, nil
	}

	for _, imp := range u.File.Imports {
		if imp.Default == name {
			target, err := u.ResolveModule(imp.Module)
			if err != nil {
				return Symbol{}, false, err
			}
			return target.resolveExport("default", seen)
		}
		if imp.Namespace == name {
			target, err := u.ResolveModule(imp.Module)
			if err != nil {
				return Symbol{}, false, err
			}
			return Symbol{Unit: target, Namespace: target}, true, nil
		}
		for _, spec := range imp.Named {
			if spec.Local != name {
				continue
			}
			target, err := u.ResolveModule(imp.Module)
			if err != nil {
				return Symbol{}, false, err
			}
			return target.resolveExport(spec.Imported, seen)
		}
	}
	return Symbol{}, false, nil
}

func (u *Unit) resolveExport(name string, seen map[lookupKey]bool) (Symbol, bool, error) {
	key := lookupKey{u, name, true}
	if seen[key] {
		return Symbol{}, false, nil
	}
	seen[key] = true

	if name == "default" {
		if d := u.File.DefaultDecl(); d != nil {
			return Symbol{Unit: u, Decls: []tsparse.Decl{d}}, true, nil
		}
	} else {
		var decls []tsparse.Decl
		for _, d := range u.File.Lookup(name) {
			if d.Modifiers().Exported && !d.Modifiers().Default {
				decls = append(decls, d)
			}
		}
		if len(decls) > 0 {
			return Symbol{Unit: u, Decls: decls}, true, nil
		}
	}

	for _, exp := range u.File.Exports {
		if exp.Module == "" {
			for _, spec := range exp.Specs {
				if spec.Exported == name {
					return u.lookup(spec.Local, seen)
				}
			}
			continue
		}
		if exp.StarAs == name {
			target, err := u.ResolveModule(exp.Module)
			if err != nil {
				return Symbol{}, false, err
			}
			return Symbol{Unit: target, Namespace: target}, true, nil
		}
		for _, spec := range exp.Specs {
			if spec.Exported != name {
				continue
			}
			target, err := u.ResolveModule(exp.Module)
			if err != nil {
				return Symbol{}, false, err
			}
			return target.resolveExport(spec.Local, seen)
		}
	}

	if name == "default" {
		return Symbol{}, false, nil
	}
	for _, exp := range u.File.Exports {
		if !exp.Star {
			continue
		}
		target, err := u.ResolveModule(exp.Module)
		if err != nil {
			return Symbol{}, false, err
		}
		sym, ok, err := target.resolveExport(name, seen)
		if err != nil || ok {
			return sym, ok, err
		}
	}
	return Symbol{}, false, nil
}

// IsExported reports whether d can be imported from its unit, either by
// an export modifier or by a local export statement.
func (u *Unit) IsExported(d tsparse.Decl) bool {
	if d.Modifiers().Exported {
		return true
	}
	_, ok := u.localExportName(d, true)
	return ok
}

// IsDefaultExport reports whether d is the unit's default export.
func (u *Unit) IsDefaultExport(d tsparse.Decl) bool {
	if d.Modifiers().Default {
		return true
	}
	name, ok := u.localExportName(d, true)
	return ok && name == "default"
}

// ExportName returns the name d is exported under as a named export.
func (u *Unit) ExportName(d tsparse.Decl) (string, bool) {
	if d.Modifiers().Exported && !d.Modifiers().Default {
		return d.DeclName(), true
	}
	return u.localExportName(d, false)
}

// localExportName scans `export { ... }` and `export default x` statements
// for d. With preferDefault a default binding wins over named ones.
func (u *Unit) localExportName(d tsparse.Decl, preferDefault bool) (string, bool) {
	name := d.DeclName()
	if name == "" {
		return "", false
	}
	var found string
	ok := false
	for _, exp := range u.File.Exports {
		if exp.Module != "" {
			continue
		}
		for _, spec := range exp.Specs {
			if spec.Local != name {
				continue
			}
			if spec.Exported == "default" {
				if preferDefault {
					return "default", true
				}
				continue
			}
			if !ok {
				found, ok = spec.Exported, true
			}
		}
	}
	return found, ok
}
