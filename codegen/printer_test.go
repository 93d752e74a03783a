package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func wrapperProgram() *Program {
	builder := &Arrow{Params: []string{"yargs"}, Body: []Stmt{
		&Return{X: Invoke(Id("yargs"), "option", Str("foo"), &Object{Props: []Prop{{Key: "type", Value: Str("string")}}})},
	}}
	handler := &Arrow{Params: []string{"args"}, Body: []Stmt{
		&Destructure{Names: []string{"_", "$0"}, Rest: "options", Init: Id("args")},
		&ExprStmt{X: &Call{Fun: Id("command"), Args: []Expr{Id("options")}}},
	}}

	var chain Expr = Invoke(Id("yargs"), "command", Str("$0 [options]"), Str(""), builder, handler)
	chain = Invoke(chain, "strict")
	chain = Invoke(chain, "help")
	chain = Invoke(chain, "alias", Str("help"), Str("h"))
	chain = Invoke(chain, "version")

	return &Program{Stmts: []Stmt{
		&Import{Namespace: "yargs", Module: "yargs"},
		&Import{Default: "command", Module: "./"},
		&Func{Export: true, Default: true, Name: "main", ReturnType: "void", Body: []Stmt{
			&ExprStmt{X: Sel(chain, "argv")},
		}},
	}}
}

func TestPrintWrapper(t *testing.T) {
	want := `import * as yargs from "yargs";
import command from "./";
export default function main(): void {
  yargs
    .command(
      "$0 [options]",
      "",
      yargs => {
        return yargs.option("foo", { type: "string" });
      },
      args => {
        const { _, $0, ...options } = args;
        command(options);
      }
    )
    .strict()
    .help()
    .alias("help", "h")
    .version().argv;
}
`
	prog := wrapperProgram()
	assert.Equal(t, want, Print(prog))
	assert.Equal(t, Print(prog), Print(prog))
}

func TestPrintHugsLastObject(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&Func{Name: "f", Body: []Stmt{
			&Return{X: Invoke(Id("yargs"), "option", Str("verbose"), &Object{Props: []Prop{
				{Key: "type", Value: Str("boolean")},
				{Key: "description", Value: Str("Print every step of the generation")},
			}})},
		}},
	}}
	want := `function f() {
  return yargs.option("verbose", {
    type: "boolean",
    description: "Print every step of the generation"
  });
}
`
	assert.Equal(t, want, Print(prog))
}

func TestPrintShortChainStaysFlat(t *testing.T) {
	var chain Expr = Invoke(Id("yargs"), "positional", Str("a"), &Object{Props: []Prop{{Key: "type", Value: Str("string")}}})
	chain = Invoke(chain, "option", Str("b"), &Object{Props: []Prop{{Key: "type", Value: Str("number")}}})
	prog := &Program{Stmts: []Stmt{&Return{X: chain}}}
	assert.Equal(t, `return yargs.positional("a", { type: "string" }).option("b", { type: "number" });`+"\n", PrintWidth(prog, 100))
	assert.Equal(t, `return yargs
  .positional("a", { type: "string" })
  .option("b", { type: "number" });
`, PrintWidth(prog, 60))
}

func TestPrintIf(t *testing.T) {
	guard := func(name string) Stmt {
		return &If{
			Cond: &Binary{Op: "===", L: &Keyword{Name: "undefined"}, R: Id(name)},
			Then: &Throw{X: &New{Fun: Id("TypeError"), Args: []Expr{Str("Argument " + name + " was required")}}},
		}
	}
	prog := &Program{Stmts: []Stmt{
		&Func{Name: "f", Body: []Stmt{
			&ExprStmt{X: &Arrow{Params: []string{"args"}, Body: []Stmt{guard("foo"), guard("somewhatLongerName")}}},
		}},
	}}
	want := `function f() {
  args => {
    if (undefined === foo) throw new TypeError("Argument foo was required");
    if (undefined === somewhatLongerName)
      throw new TypeError("Argument somewhatLongerName was required");
  };
}
`
	assert.Equal(t, want, Print(prog))
}

func TestPrintImports(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&Import{Named: []string{"Alpha", "Beta", "Gamma"}, Module: "./x"},
		&Import{Default: "cmd", Named: []string{"Color"}, Module: "../enums"},
		&Import{Module: "./side"},
	}}
	want := `import {
  Alpha,
  Beta,
  Gamma
} from "./x";
import cmd, { Color } from "../enums";
import "./side";
`
	assert.Equal(t, want, PrintWidth(prog, 40))
}

func TestPrintVerbatimSpacing(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&Import{Namespace: "y", Module: "/abs/y/index.js"},
		&Verbatim{Text: "const a = 1;\n\n"},
		&Func{Async: true, Name: "main", ReturnType: "Promise<void>"},
		&ExprStmt{X: &Call{Fun: Id("main")}},
	}}
	want := "import * as y from \"/abs/y/index.js\";\n\nconst a = 1;\n\nasync function main(): Promise<void> {}\nmain();\n"
	assert.Equal(t, want, Print(prog))
}

func TestPrintLiterals(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{Str(`say "hi"`), `'say "hi"'`},
		{Str("it's"), `"it's"`},
		{Str("a\nb\\c"), `"a\nb\\c"`},
		{Str("\x01"), `"\x01"`},
		{&Number{Raw: "0x1F"}, "0x1F"},
		{&Bool{Value: true}, "true"},
		{&Array{}, "[]"},
		{&Array{Elems: []Expr{Sel(Id("Color"), "A"), Sel(Id("Color"), "B")}}, "[Color.A, Color.B]"},
		{&Object{Props: []Prop{{Key: "quoted-key", Value: &Keyword{Name: "null"}}}}, `{ "quoted-key": null }`},
		{&Object{}, "{}"},
		{&Arrow{Params: []string{"a", "b"}}, "(a, b) => {}"},
		{&Await{X: &Call{Fun: Id("run")}}, "await run()"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Print(&Program{Stmts: []Stmt{&ExprStmt{X: tt.expr}}})
			assert.Equal(t, tt.want+";\n", got)
		})
	}
}

func TestIdentifier(t *testing.T) {
	tests := map[string]string{
		"cmd":     "cmd",
		"my-cmd":  "myCmd",
		"my_cmd":  "myCmd",
		"2fa":     "_2fa",
		"default": "_default",
		"index":   "index",
		"---":     "_",
	}
	for in, want := range tests {
		assert.Equal(t, want, Identifier(in), in)
	}
	assert.True(t, IsIdentifier("$0"))
	assert.False(t, IsIdentifier("a-b"))
	assert.False(t, IsIdentifier("1a"))
}
