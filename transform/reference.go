package transform

import (
	"fmt"
	"strings"

	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/tsparse"
	"github.com/teranos/tscli/typemodel"
)

// ExportForm is how a declaration can be imported from its unit.
type ExportForm int

const (
	// Named is `import { X }`.
	Named ExportForm = iota
	// Default is `import X`.
	Default
	// Local declarations are not exported. Only a command embedded in the
	// generated file may be local.
	Local
)

func (f ExportForm) String() string {
	switch f {
	case Default:
		return "default"
	case Local:
		return "local"
	default:
		return "named"
	}
}

// Reference is a declaration the generated file must be able to name.
type Reference struct {
	Name string // import name
	Form ExportForm
	Unit *typemodel.Unit
	Decl tsparse.Decl
}

// QualifiedName is the diagnostic name `"<path>".Name`.
func (r Reference) QualifiedName() string {
	name := r.Decl.DeclName()
	if name == "" {
		name = r.Name
	}
	return r.Unit.QualifiedName(name)
}

// UnitReferences are the references into one source unit.
type UnitReferences struct {
	Unit    *typemodel.Unit
	Default []Reference
	Named   []Reference
	Local   []Reference
}

// ReferenceTable accumulates references per declaring unit. Units keep
// first-seen order and a declaration is recorded once per form.
type ReferenceTable struct {
	units   []*typemodel.Unit
	entries map[*typemodel.Unit]*UnitReferences
}

// NewReferenceTable returns an empty table.
func NewReferenceTable() *ReferenceTable {
	return &ReferenceTable{entries: make(map[*typemodel.Unit]*UnitReferences)}
}

// Add records ref.
func (t *ReferenceTable) Add(ref Reference) {
	entry, ok := t.entries[ref.Unit]
	if !ok {
		entry = &UnitReferences{Unit: ref.Unit}
		t.entries[ref.Unit] = entry
		t.units = append(t.units, ref.Unit)
	}

	list := &entry.Named
	switch ref.Form {
	case Default:
		list = &entry.Default
	case Local:
		list = &entry.Local
	}
	for _, existing := range *list {
		if existing.Decl == ref.Decl {
			return
		}
	}
	*list = append(*list, ref)
}

// Merge adds every reference of other, keeping other's order.
func (t *ReferenceTable) Merge(other *ReferenceTable) *ReferenceTable {
	if other == nil {
		return t
	}
	for _, ref := range other.All() {
		t.Add(ref)
	}
	return t
}

// Entries returns the per-unit references in first-seen order.
func (t *ReferenceTable) Entries() []*UnitReferences {
	out := make([]*UnitReferences, 0, len(t.units))
	for _, u := range t.units {
		out = append(out, t.entries[u])
	}
	return out
}

// All returns every reference: per unit, defaults then named then local.
func (t *ReferenceTable) All() []Reference {
	var out []Reference
	for _, e := range t.Entries() {
		out = append(out, e.Default...)
		out = append(out, e.Named...)
		out = append(out, e.Local...)
	}
	return out
}

// Len is the number of references.
func (t *ReferenceTable) Len() int {
	return len(t.All())
}

// CheckConflicts fails when one import name refers to more than one
// declaration.
func (t *ReferenceTable) CheckConflicts() error {
	type named struct {
		name  string
		decls []Reference
	}
	var order []*named
	byName := make(map[string]*named)

	for _, ref := range t.All() {
		n, ok := byName[ref.Name]
		if !ok {
			n = &named{name: ref.Name}
			byName[ref.Name] = n
			order = append(order, n)
		}
		seen := false
		for _, d := range n.decls {
			if d.Decl == ref.Decl {
				seen = true
				break
			}
		}
		if !seen {
			n.decls = append(n.decls, ref)
		}
	}

	var lines []string
	for _, n := range order {
		if len(n.decls) < 2 {
			continue
		}
		qualified := make([]string, len(n.decls))
		for i, d := range n.decls {
			qualified[i] = d.QualifiedName()
		}
		lines = append(lines, fmt.Sprintf("%q both exported from: %s", n.name, strings.Join(qualified, ", ")))
	}
	if len(lines) == 0 {
		return nil
	}
	return errors.WithHint(
		errors.Mark(errors.Newf("Name conflict:\n%s", strings.Join(lines, "\n")), errors.ErrNameConflict),
		"rename one of the declarations or re-export it under another name",
	)
}
