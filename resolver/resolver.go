// Package resolver finds the command function in a source unit.
package resolver

import (
	"sort"

	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
	"github.com/teranos/tscli/tsparse"
	"github.com/teranos/tscli/typemodel"
)

// CommandTag marks the command among several exported functions.
const CommandTag = "command"

// Resolve returns the function declaration that becomes the CLI entry
// point.
//
// A lone function is chosen whether or not it is exported. Otherwise only
// exported functions are candidates, ranked: the default export, then
// functions tagged @command, then the rest. Equal ranks keep declaration
// order, so the earliest declared candidate wins.
func Resolve(u *typemodel.Unit) (*tsparse.FuncDecl, error) {
	fns := u.File.Functions()

	switch len(fns) {
	case 0:
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrNoFunctionFound, "%s", u.Path),
			"declare the command as a top-level function",
		)
	case 1:
		return fns[0], nil
	}

	var exported []*tsparse.FuncDecl
	for _, fn := range fns {
		if u.IsExported(fn) {
			exported = append(exported, fn)
		}
	}

	switch len(exported) {
	case 0:
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrNoExportedFunctionFound, "%s declares %d functions", u.Path, len(fns)),
			"export the command function",
		)
	case 1:
		return exported[0], nil
	}

	ranked := make([]candidate, len(exported))
	for i, fn := range exported {
		ranked[i] = candidate{fn: fn, rank: rank(u, fn)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].rank < ranked[j].rank
	})

	if ranked[0].rank == rankTagged && ranked[1].rank == rankTagged {
		logger.Debugw("Several functions are tagged @command, using the first declared",
			logger.FieldFile, u.Path,
			logger.FieldFunction, ranked[0].fn.Name,
		)
	}
	return ranked[0].fn, nil
}

const (
	rankDefault = iota
	rankTagged
	rankPlain
)

type candidate struct {
	fn   *tsparse.FuncDecl
	rank int
}

func rank(u *typemodel.Unit, fn *tsparse.FuncDecl) int {
	if u.IsDefaultExport(fn) {
		return rankDefault
	}
	if IsTagged(fn) {
		return rankTagged
	}
	return rankPlain
}

// IsTagged reports whether fn's documentation carries the @command tag.
func IsTagged(fn *tsparse.FuncDecl) bool {
	block := typemodel.Documentation(fn.Doc)
	return typemodel.Tag(block, typemodel.TagName(CommandTag), 0) != nil
}
