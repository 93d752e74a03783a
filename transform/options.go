package transform

import (
	"github.com/teranos/tscli/codegen"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
	"github.com/teranos/tscli/tsparse"
	"github.com/teranos/tscli/typemodel"
)

// Option describes one member of the options bag.
type Option struct {
	Name        string
	Type        ArgumentType
	Description string
	Alias       string
	Default     *tsparse.Expr
	Required    bool

	// tags in the order they were written, applied after the type and
	// description properties
	tagProps []codegen.Prop
}

// Call returns `option(name, config)`.
func (o Option) Call() *codegen.Call {
	props := o.Type.Config()
	if o.Description != "" {
		props = setProp(props, "description", codegen.Str(o.Description))
	}
	for _, p := range o.tagProps {
		props = setProp(props, p.Key, p.Value)
	}
	return configCall("option", o.Name, props)
}

// Tags understood on options members.
const (
	tagAlias        = "alias"
	tagDefault      = "default"
	tagDemandOption = "demandOption"
	tagRequire      = "require"
	tagRequired     = "required"
)

// controlledKeys are configuration keys derived from the member's type and
// documentation, which a tag may not override.
var controlledKeys = map[string]bool{
	"type":        true,
	"array":       true,
	"choices":     true,
	"description": true,
	"desc":        true,
	"describe":    true,
}

func (t *transformer) options(param *tsparse.Param) ([]Option, *ReferenceTable, error) {
	if param.Type == nil {
		return nil, nil, errors.WithHint(
			errors.Mark(errors.Newf("The options parameter %q has no type", param.Name), errors.ErrUnresolved),
			"annotate it with an interface describing the options",
		)
	}

	info, err := typemodel.Classify(t.unit, param.Type)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "options parameter %s", param.Name)
	}
	if info.Unresolved {
		return nil, nil, errors.WithHintf(
			errors.Mark(errors.Newf("Cannot find the declaration of options type %q", info.Text), errors.ErrUnresolved),
			"declare %s in this file or import it with a relative path", info.Text,
		)
	}
	if info.Kind != typemodel.KindStructural {
		return nil, nil, errors.WithHint(
			errors.Mark(errors.Newf("Unsupported options type %q, only interfaces are supported", info.Text), errors.ErrNotStructural),
			"describe the options with an interface or an object type",
		)
	}

	refs := NewReferenceTable()
	var out []Option
	for _, member := range info.Structure.Members {
		opt, ref, ok, err := t.option(member)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}
		if ref != nil {
			refs.Add(*ref)
		}
		out = append(out, opt)
	}
	return out, refs, nil
}

func (t *transformer) option(member typemodel.StructMember) (Option, *Reference, bool, error) {
	switch member.Kind {
	case tsparse.MemberProperty:
	case tsparse.MemberMethod:
		return Option{}, nil, false, errors.WithHint(
			errors.Mark(errors.Newf("Unsupported option type %q", member.Text), errors.ErrUnsupportedType),
			"options members must be properties",
		)
	default:
		t.report.Warnw("Ignoring options member that is not a property",
			logger.FieldMember, member.Text,
			logger.FieldFile, member.Unit.Path,
		)
		return Option{}, nil, false, nil
	}

	info, err := typemodel.Classify(member.Unit, member.Type)
	if err != nil {
		return Option{}, nil, false, errors.Wrapf(err, "option %s", member.Name)
	}
	if member.Type == nil {
		info.Text = "any"
	}
	typ, ref, err := argumentType(info, "option")
	if err != nil {
		return Option{}, nil, false, err
	}

	opt := Option{Name: member.Name, Type: typ}
	block := typemodel.Documentation(member.Doc)
	if block != nil {
		opt.Description = block.Description
		if err := t.applyTags(&opt, block, member); err != nil {
			return Option{}, nil, false, err
		}
	}
	return opt, ref, true, nil
}

func (t *transformer) applyTags(opt *Option, block *tsparse.DocBlock, member typemodel.StructMember) error {
	for _, tag := range block.Tags {
		switch tag.Name {
		case tagAlias:
			alias := tag.Text()
			if alias == "" {
				t.warnTag("Ignoring @alias without a name", opt.Name, tag.Name)
				continue
			}
			opt.Alias = alias
			opt.tagProps = setProp(opt.tagProps, tagAlias, codegen.Str(alias))

		case tagDefault:
			text := tag.Text()
			if text == "" {
				t.warnTag("Ignoring @default without a value", opt.Name, tag.Name)
				continue
			}
			expr, err := tsparse.ParseExpr("@default", text)
			if err != nil {
				return errors.Wrapf(err, "option %s", opt.Name)
			}
			value, err := exprNode(expr)
			if err != nil {
				return errors.Wrapf(err, "option %s", opt.Name)
			}
			if reason := defaultMismatch(opt.Type, expr); reason != "" {
				t.report.Warnw("@default value does not match the option type",
					logger.FieldMember, opt.Name,
					logger.FieldType, opt.Type.String(),
					logger.FieldReason, reason,
				)
			}
			opt.Default = expr
			opt.tagProps = setProp(opt.tagProps, tagDefault, value)

		case tagDemandOption, tagRequire, tagRequired:
			opt.Required = true
			opt.tagProps = setProp(opt.tagProps, tagDemandOption, &codegen.Bool{Value: true})

		default:
			if controlledKeys[tag.Name] {
				return errors.WithHintf(
					errors.Mark(errors.Newf("Unsupported tag @%s on option %s", tag.Name, opt.Name), errors.ErrTagConflict),
					"@%s is derived from the member's type and documentation", tag.Name,
				)
			}
			t.warnTag("Ignoring unsupported tag", opt.Name, tag.Name)
		}
	}
	return nil
}

func (t *transformer) warnTag(msg, member, tag string) {
	t.report.Warnw(msg, logger.FieldMember, member, logger.FieldTag, "@"+tag)
}

// exprNode converts a parsed @default literal to an output expression.
func exprNode(e *tsparse.Expr) (codegen.Expr, error) {
	switch e.Kind {
	case tsparse.ExprString:
		return codegen.Str(e.Value), nil
	case tsparse.ExprNumber:
		return &codegen.Number{Raw: e.Value}, nil
	case tsparse.ExprBoolean:
		return &codegen.Bool{Value: e.Value == "true"}, nil
	case tsparse.ExprNull:
		return &codegen.Keyword{Name: "null"}, nil
	case tsparse.ExprUndefined:
		return &codegen.Keyword{Name: "undefined"}, nil
	case tsparse.ExprRef:
		for _, name := range e.Path {
			if !codegen.IsIdentifier(name) {
				return nil, errors.Mark(errors.Newf("@default member %q is not an identifier", name), errors.ErrParse)
			}
		}
		return codegen.Sel(codegen.Id(e.Path[0]), e.Path[1:]...), nil
	case tsparse.ExprArray:
		arr := &codegen.Array{}
		for _, el := range e.Elems {
			n, err := exprNode(el)
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, n)
		}
		return arr, nil
	default:
		obj := &codegen.Object{}
		for _, p := range e.Props {
			n, err := exprNode(p.Value)
			if err != nil {
				return nil, err
			}
			obj.Props = append(obj.Props, codegen.Prop{Key: p.Key, Value: n})
		}
		return obj, nil
	}
}

// defaultMismatch explains why a @default value visibly contradicts the
// option type, or returns "". References other than enum members are
// not checked.
func defaultMismatch(typ ArgumentType, e *tsparse.Expr) string {
	if e.Kind == tsparse.ExprNull || e.Kind == tsparse.ExprUndefined {
		return ""
	}
	literal := e.Kind != tsparse.ExprRef

	switch typ := typ.(type) {
	case Primitive:
		if literal && e.Kind != exprKindOf(typ) {
			return e.Kind.String() + " value for " + string(typ) + " option"
		}
	case ArrayOf:
		if !literal {
			return ""
		}
		if e.Kind != tsparse.ExprArray {
			return e.Kind.String() + " value for array option"
		}
		for _, el := range e.Elems {
			if el.Kind != tsparse.ExprRef && el.Kind != exprKindOf(typ.Elem) {
				return el.Kind.String() + " element for " + typ.String() + " option"
			}
		}
	case Enum:
		switch e.Kind {
		case tsparse.ExprRef:
			if len(e.Path) == 2 && e.Path[0] == typ.Ref.Name {
				for _, m := range typ.Members {
					if m == e.Path[1] {
						return ""
					}
				}
				return e.Text + " is not a member of " + typ.Ref.Name
			}
		case tsparse.ExprString:
			for _, v := range typ.Values {
				if v == e.Value {
					return ""
				}
			}
			return "\"" + e.Value + "\" is not a value of " + typ.Ref.Name
		default:
			return e.Kind.String() + " value for enum option"
		}
	}
	return ""
}

func exprKindOf(p Primitive) tsparse.ExprKind {
	switch p {
	case Number:
		return tsparse.ExprNumber
	case Boolean:
		return tsparse.ExprBoolean
	default:
		return tsparse.ExprString
	}
}
