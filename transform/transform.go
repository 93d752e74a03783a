// Package transform maps a command function's signature to yargs
// positional and option configuration, collecting the declarations the
// generated file has to import.
package transform

import (
	"regexp"
	"strings"

	"github.com/teranos/tscli/codegen"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
	"github.com/teranos/tscli/tsparse"
	"github.com/teranos/tscli/typemodel"
)

// Reporter receives non-fatal findings. *zap.SugaredLogger satisfies it.
type Reporter interface {
	Warnw(msg string, keysAndValues ...interface{})
}

var (
	optionsName = regexp.MustCompile(`^options?$`)
	paramTag    = typemodel.TagPattern{Regexp: regexp.MustCompile(`^(param|arg|argument)$`)}
)

// Parameter describes one positional argument.
type Parameter struct {
	Name        string
	Type        ArgumentType
	Description string
}

// Call returns `positional(name, config)`.
func (p Parameter) Call() *codegen.Call {
	props := p.Type.Config()
	if p.Description != "" {
		props = setProp(props, "description", codegen.Str(p.Description))
	}
	return configCall("positional", p.Name, props)
}

// Positional pairs a positional name with its builder call.
type Positional struct {
	Name string
	Call *codegen.Call
}

// Result is everything the renderer needs.
type Result struct {
	Name        string // the name the handler calls the command by
	Command     Reference
	References  *ReferenceTable
	Description string
	Parameters  []Parameter
	Flags       []Option
	Positionals []Positional
	Options     []*codegen.Call
}

// Command transforms fn, declared in u. Warnings go to r, or to the
// global logger when r is nil.
func Command(u *typemodel.Unit, fn *tsparse.FuncDecl, r Reporter) (*Result, error) {
	if r == nil {
		r = logger.Logger
	}
	t := &transformer{unit: u, fn: fn, report: r}

	positionals, bag := splitParams(fn.Params)

	params, paramRefs, err := t.positionals(positionals)
	if err != nil {
		return nil, err
	}

	optionRefs := NewReferenceTable()
	var flags []Option
	if bag != nil {
		flags, optionRefs, err = t.options(bag)
		if err != nil {
			return nil, err
		}
	}

	cmdRef := t.commandReference()
	refs := NewReferenceTable()
	refs.Add(cmdRef)
	refs.Merge(paramRefs).Merge(optionRefs)
	if err := refs.CheckConflicts(); err != nil {
		return nil, err
	}

	res := &Result{
		Name:        cmdRef.Name,
		Command:     cmdRef,
		References:  refs,
		Description: t.description(),
		Parameters:  params,
		Flags:       flags,
	}
	for _, p := range params {
		res.Positionals = append(res.Positionals, Positional{Name: p.Name, Call: p.Call()})
	}
	for _, o := range flags {
		res.Options = append(res.Options, o.Call())
	}
	return res, nil
}

// splitParams sets aside a trailing parameter named option or options.
func splitParams(params []*tsparse.Param) ([]*tsparse.Param, *tsparse.Param) {
	if len(params) == 0 {
		return nil, nil
	}
	last := params[len(params)-1]
	if optionsName.MatchString(last.Name) {
		return params[:len(params)-1], last
	}
	return params, nil
}

type transformer struct {
	unit   *typemodel.Unit
	fn     *tsparse.FuncDecl
	report Reporter
}

func (t *transformer) commandReference() Reference {
	fn := t.fn
	ref := Reference{Unit: t.unit, Decl: fn, Name: fn.Name, Form: Local}
	switch {
	case t.unit.IsDefaultExport(fn):
		ref.Form = Default
		if ref.Name == "" {
			ref.Name = codegen.Identifier(t.unit.BaseName())
		}
	default:
		if name, ok := t.unit.ExportName(fn); ok {
			ref.Form = Named
			ref.Name = name
		}
	}
	return ref
}

func (t *transformer) description() string {
	block := typemodel.Documentation(t.fn.Doc)
	if block == nil {
		return ""
	}
	return block.Description
}

func (t *transformer) positionals(params []*tsparse.Param) ([]Parameter, *ReferenceTable, error) {
	refs := NewReferenceTable()
	var out []Parameter

	for _, param := range params {
		if param.Name == "" {
			return nil, nil, errors.WithHint(
				errors.Mark(errors.Newf("Unsupported positional parameter %q", param.Pattern), errors.ErrUnsupportedType),
				"declare each positional as a plain named parameter",
			)
		}
		if param.Rest {
			return nil, nil, errors.WithHint(
				errors.Mark(errors.Newf("Unsupported positional parameter \"...%s\"", param.Name), errors.ErrUnsupportedType),
				"use an array-typed parameter instead of a rest parameter",
			)
		}

		info, err := typemodel.Classify(t.unit, param.Type)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "parameter %s", param.Name)
		}
		if info.Kind == typemodel.KindAny {
			t.report.Warnw("Command parameter has \"any\" type, treating it as string",
				logger.FieldParameter, param.Name,
				logger.FieldFunction, t.fn.Name,
			)
			info = typemodel.TypeInfo{Kind: typemodel.KindString}
		}

		typ, ref, err := argumentType(info, "positional")
		if err != nil {
			return nil, nil, err
		}
		if ref != nil {
			refs.Add(*ref)
		}

		out = append(out, Parameter{
			Name:        param.Name,
			Type:        typ,
			Description: t.paramDescription(param.Name),
		})
	}
	return out, refs, nil
}

// paramDescription reads the last @param tag naming the parameter and
// drops one leading dash.
func (t *transformer) paramDescription(name string) string {
	block := typemodel.Documentation(t.fn.Doc)
	tag := typemodel.Tag(block, typemodel.TagFunc(func(tag *tsparse.Tag) bool {
		return paramTag.Match(tag) && tag.ParamName == name
	}), -1)
	if tag == nil {
		return ""
	}
	text := tag.Text()
	if strings.HasPrefix(text, "-") {
		text = strings.TrimSpace(strings.TrimPrefix(text, "-"))
	}
	return text
}

// argumentType maps a classified type to an ArgumentType. Enum types also
// yield the reference needed to import them.
func argumentType(info typemodel.TypeInfo, context string) (ArgumentType, *Reference, error) {
	switch info.Kind {
	case typemodel.KindString:
		return String, nil, nil
	case typemodel.KindNumber:
		return Number, nil, nil
	case typemodel.KindBoolean:
		return Boolean, nil, nil
	case typemodel.KindArray:
		switch info.Elem.Kind {
		case typemodel.KindString:
			return ArrayOf{Elem: String}, nil, nil
		case typemodel.KindNumber:
			return ArrayOf{Elem: Number}, nil, nil
		case typemodel.KindBoolean:
			return ArrayOf{Elem: Boolean}, nil, nil
		}
	case typemodel.KindEnum, typemodel.KindEnumMember:
		return enumType(info.Enum)
	}
	return nil, nil, unsupportedType(info, context)
}

func unsupportedType(info typemodel.TypeInfo, context string) error {
	text := info.Text
	if text == "" {
		text = info.Kind.String()
	}
	err := errors.Mark(errors.Newf("Unsupported %s type %q", context, text), errors.ErrUnsupportedType)
	if info.Unresolved {
		return errors.WithHintf(err, "no declaration of %s was found in the imported files", text)
	}
	return errors.WithHint(err, "use string, number, boolean, an array of those, or a string enum")
}

func enumType(ref *typemodel.EnumRef) (ArgumentType, *Reference, error) {
	decl := ref.Decl
	e := Enum{}
	for _, m := range decl.Members {
		if m.ValueKind != tsparse.EnumValueString {
			return nil, nil, errors.WithHint(
				errors.Mark(
					errors.Newf("The member %s.%s is not initialized with a string", decl.Name, m.Name),
					errors.ErrNonStringEnum,
				),
				"give every enum member a string value",
			)
		}
		e.Members = append(e.Members, m.Name)
		e.Values = append(e.Values, m.Value)
	}

	r, err := exportReference(ref.Unit, decl)
	if err != nil {
		return nil, nil, err
	}
	e.Ref = r
	return e, &r, nil
}

func exportReference(u *typemodel.Unit, decl tsparse.Decl) (Reference, error) {
	ref := Reference{Name: decl.DeclName(), Unit: u, Decl: decl}
	if u.IsDefaultExport(decl) {
		ref.Form = Default
		return ref, nil
	}
	if name, ok := u.ExportName(decl); ok {
		ref.Form = Named
		ref.Name = name
		return ref, nil
	}
	return ref, errors.WithHintf(
		errors.Mark(errors.Newf("The declaration %q is not exported", decl.DeclName()), errors.ErrNotExported),
		"export %s from %s so the generated file can import it", decl.DeclName(), u.Path,
	)
}

func configCall(fun, name string, props []codegen.Prop) *codegen.Call {
	return &codegen.Call{
		Fun:  codegen.Id(fun),
		Args: []codegen.Expr{codegen.Str(name), &codegen.Object{Props: props}},
	}
}

// setProp replaces the value of key in place or appends it.
func setProp(props []codegen.Prop, key string, value codegen.Expr) []codegen.Prop {
	for i := range props {
		if props[i].Key == key {
			props[i].Value = value
			return props
		}
	}
	return append(props, codegen.Prop{Key: key, Value: value})
}
