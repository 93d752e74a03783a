package transform

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/tscli/codegen"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/tsparse"
	"github.com/teranos/tscli/typemodel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fixture loads files under /proj and returns the unit for entry.
func fixture(t *testing.T, entry string, files map[string]string) *typemodel.Unit {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, src := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/proj", name), []byte(src), 0o644))
	}
	u, err := typemodel.NewProgram(fs).Load(filepath.Join("/proj", entry))
	require.NoError(t, err)
	return u
}

func observed() (Reporter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core).Sugar(), logs
}

func run(t *testing.T, src string) (*Result, *observer.ObservedLogs, error) {
	t.Helper()
	u := fixture(t, "cmd.ts", map[string]string{"cmd.ts": src})
	r, logs := observed()
	res, err := Command(u, u.File.Functions()[0], r)
	return res, logs, err
}

func mustRun(t *testing.T, src string) (*Result, *observer.ObservedLogs) {
	t.Helper()
	res, logs, err := run(t, src)
	require.NoError(t, err)
	return res, logs
}

func printed(e codegen.Expr) string {
	out := codegen.PrintWidth(&codegen.Program{Stmts: []codegen.Stmt{&codegen.ExprStmt{X: e}}}, 1000)
	return strings.TrimSuffix(out, ";\n")
}

func TestPositionalTypes(t *testing.T) {
	tests := []struct {
		typ  string
		want ArgumentType
	}{
		{"string", String},
		{"number", Number},
		{"boolean", Boolean},
		{"string[]", ArrayOf{Elem: String}},
		{"Array<number>", ArrayOf{Elem: Number}},
		{"boolean[]", ArrayOf{Elem: Boolean}},
		{"string | undefined", String},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			res, logs := mustRun(t, "export function cmd(a: "+tt.typ+") {}")
			require.Len(t, res.Parameters, 1)
			assert.Equal(t, tt.want, res.Parameters[0].Type)
			assert.Zero(t, logs.Len())
		})
	}
}

func TestPositionalCall(t *testing.T) {
	res, _ := mustRun(t, `
/**
 * Greets people.
 * @param foo - who to greet
 * @param bar how often
 */
export function cmd(foo: string, bar: number[]) {}
`)
	assert.Equal(t, "Greets people.", res.Description)
	require.Len(t, res.Positionals, 2)
	assert.Equal(t, "foo", res.Positionals[0].Name)
	assert.Equal(t, `positional("foo", { type: "string", description: "who to greet" })`, printed(res.Positionals[0].Call))
	assert.Equal(t, `positional("bar", { type: "number", array: true, description: "how often" })`, printed(res.Positionals[1].Call))
	assert.Empty(t, res.Options)
}

func TestAnyParameterWarns(t *testing.T) {
	res, logs := mustRun(t, "export function cmd(a, b: any) {}")
	require.Len(t, res.Parameters, 2)
	assert.Equal(t, String, res.Parameters[0].Type)
	assert.Equal(t, String, res.Parameters[1].Type)

	warnings := logs.FilterMessageSnippet(`"any" type`).All()
	require.Len(t, warnings, 2)
	assert.Equal(t, "a", warnings[0].ContextMap()["parameter"])
}

func TestUnsupportedTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
		msg  string
	}{
		{"unresolved positional", "export function cmd(a: Date) {}", errors.ErrUnsupportedType, `Unsupported positional type "Date"`},
		{"union positional", "export function cmd(a: string | number) {}", errors.ErrUnsupportedType, `Unsupported positional type "string | number"`},
		{"nested array", "export function cmd(a: string[][]) {}", errors.ErrUnsupportedType, `Unsupported positional type "string[][]"`},
		{"rest positional", "export function cmd(...a: string[]) {}", errors.ErrUnsupportedType, `"...a"`},
		{"pattern positional", "export function cmd({ a }: { a: string }) {}", errors.ErrUnsupportedType, "Unsupported positional parameter"},
		{"options not structural", "export function cmd(options: string) {}", errors.ErrNotStructural, `"string"`},
		{"options untyped", "export function cmd(options) {}", errors.ErrUnresolved, "has no type"},
		{"options unresolved", "export function cmd(options: Missing) {}", errors.ErrUnresolved, `"Missing"`},
		{"option union", "interface O { a: string | number }\nexport function cmd(options: O) {}", errors.ErrUnsupportedType, `Unsupported option type "string | number"`},
		{"option any", "interface O { a: any }\nexport function cmd(options: O) {}", errors.ErrUnsupportedType, `Unsupported option type "any"`},
		{"option method", "interface O { run(): void }\nexport function cmd(options: O) {}", errors.ErrUnsupportedType, "run(): void"},
		{"non-string enum", "export enum N { A = 1 }\nexport function cmd(a: N) {}", errors.ErrNonStringEnum, "N.A"},
		{"auto enum", "export enum N { A }\nexport function cmd(a: N) {}", errors.ErrNonStringEnum, "N.A"},
		{"enum not exported", "enum Hidden { A = \"a\" }\nexport function cmd(a: Hidden) {}", errors.ErrNotExported, `"Hidden"`},
		{"tag conflict", "interface O {\n/** @type string */\na: string }\nexport function cmd(options: O) {}", errors.ErrTagConflict, "@type"},
		{"describe conflict", "interface O {\n/** @describe x */\na: string }\nexport function cmd(option: O) {}", errors.ErrTagConflict, "@describe"},
		{"bad default", "interface O {\n/** @default f() */\na: string }\nexport function cmd(options: O) {}", errors.ErrParse, "calls are not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestOptions(t *testing.T) {
	res, logs := mustRun(t, `
interface Options {
  /** Print more */
  verbose: boolean
  /**@alias f*/
  foo: string
  /**@default 42*/
  count: number
  /**
   * Things to include
   * @alias i
   * @default ["a", "b"]
   * @required
   */
  include?: string[]
  /** @demandOption */
  token: string
}
export function cmd(options: Options) {}
`)
	assert.Zero(t, logs.Len())
	require.Len(t, res.Options, 5)

	want := []string{
		`option("verbose", { type: "boolean", description: "Print more" })`,
		`option("foo", { type: "string", alias: "f" })`,
		`option("count", { type: "number", default: 42 })`,
		`option("include", { type: "string", array: true, description: "Things to include", alias: "i", default: ["a", "b"], demandOption: true })`,
		`option("token", { type: "string", demandOption: true })`,
	}
	for i, w := range want {
		assert.Equal(t, w, printed(res.Options[i]))
	}

	include := res.Flags[3]
	assert.Equal(t, "i", include.Alias)
	assert.True(t, include.Required)
	require.NotNil(t, include.Default)
	assert.Equal(t, tsparse.ExprArray, include.Default.Kind)
	assert.Empty(t, res.Positionals)
}

func TestOptionsWarnings(t *testing.T) {
	res, logs := mustRun(t, `
interface Options {
  /** @deprecated use bar */
  foo: string
  /** @default "oops" */
  n: number
  /** @alias */
  b: boolean
  [key: string]: unknown
}
export function cmd(options: Options) {}
`)
	require.Len(t, res.Options, 3)
	assert.Equal(t, `option("n", { type: "number", default: "oops" })`, printed(res.Options[1]))

	assert.Equal(t, 1, logs.FilterMessage("Ignoring unsupported tag").Len())
	assert.Equal(t, "@deprecated", logs.FilterMessage("Ignoring unsupported tag").All()[0].ContextMap()["tag"])
	assert.Equal(t, 1, logs.FilterMessage("@default value does not match the option type").Len())
	assert.Equal(t, 1, logs.FilterMessage("Ignoring @alias without a name").Len())
	assert.Equal(t, 1, logs.FilterMessage("Ignoring options member that is not a property").Len())
}

func TestEnumTypeAndMemberShareChoices(t *testing.T) {
	u := fixture(t, "cmd.ts", map[string]string{
		"color.ts": `export enum Color { A = "a", B = "b" }`,
		"cmd.ts": `
import { Color } from "./color"
interface Options { /** @default Color.B */ tint: Color }
export function cmd(a: Color, b: Color.A, options: Options) {}
`,
	})
	r, logs := observed()
	res, err := Command(u, u.File.Functions()[0], r)
	require.NoError(t, err)
	assert.Zero(t, logs.Len())

	assert.Equal(t, res.Parameters[0].Type, res.Parameters[1].Type)
	enum, ok := res.Parameters[0].Type.(Enum)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, enum.Members)
	assert.Equal(t, `positional("a", { choices: [Color.A, Color.B] })`, printed(res.Positionals[0].Call))
	assert.Equal(t, `positional("b", { choices: [Color.A, Color.B] })`, printed(res.Positionals[1].Call))
	assert.Equal(t, `option("tint", { choices: [Color.A, Color.B], default: Color.B })`, printed(res.Options[0]))

	entries := res.References.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "/proj/cmd.ts", entries[0].Unit.Path)
	require.Len(t, entries[0].Named, 1)
	assert.Equal(t, "cmd", entries[0].Named[0].Name)
	assert.Equal(t, "/proj/color.ts", entries[1].Unit.Path)
	require.Len(t, entries[1].Named, 1)
	assert.Equal(t, "Color", entries[1].Named[0].Name)
}

func TestNameConflict(t *testing.T) {
	u := fixture(t, "cmd.ts", map[string]string{
		"a.ts": `export enum E { A = "a" }`,
		"b.ts": `export enum E { B = "b" }`,
		"cmd.ts": `
import { E } from "./a"
import { E as F } from "./b"
export function cmd(x: E, y: F) {}
`,
	})
	_, err := Command(u, u.File.Functions()[0], zap.NewNop().Sugar())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNameConflict))
	assert.Equal(t, "Name conflict:\n\"E\" both exported from: \"/proj/a\".E, \"/proj/b\".E", err.Error())
}

func TestCommandNameConflictsWithEnum(t *testing.T) {
	_, _, err := run(t, "export enum cmd { A = \"a\" }\nexport function cmd(x: cmd) {}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNameConflict))
}

func TestCommandReference(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
		ref  string
		form ExportForm
	}{
		{"named export", "cmd.ts", "export function run() {}", "run", Named},
		{"renamed export", "cmd.ts", "function run() {}\nexport { run as start }", "start", Named},
		{"default export", "cmd.ts", "export default function run() {}", "run", Default},
		{"anonymous default", "my-cmd.ts", "export default function (a: string) {}", "myCmd", Default},
		{"local", "cmd.ts", "function run() {}", "run", Local},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := fixture(t, tt.file, map[string]string{tt.file: tt.src})
			res, err := Command(u, u.File.Functions()[0], zap.NewNop().Sugar())
			require.NoError(t, err)
			assert.Equal(t, tt.ref, res.Name)
			assert.Equal(t, tt.form, res.Command.Form)
			assert.Equal(t, 1, res.References.Len())
		})
	}
}

func TestSplitParams(t *testing.T) {
	f, err := tsparse.Parse("x.ts", `
function a(x: string, options: O) {}
function b(option: O) {}
function c(x: string, opts: O) {}
function d() {}
`)
	require.NoError(t, err)
	fns := f.Functions()

	pos, bag := splitParams(fns[0].Params)
	assert.Len(t, pos, 1)
	require.NotNil(t, bag)
	assert.Equal(t, "options", bag.Name)

	pos, bag = splitParams(fns[1].Params)
	assert.Empty(t, pos)
	assert.NotNil(t, bag)

	pos, bag = splitParams(fns[2].Params)
	assert.Len(t, pos, 2)
	assert.Nil(t, bag)

	pos, bag = splitParams(fns[3].Params)
	assert.Empty(t, pos)
	assert.Nil(t, bag)
}

func TestReferenceTableMerge(t *testing.T) {
	u := fixture(t, "e.ts", map[string]string{"e.ts": "export enum A { X = \"x\" }\nenum B { Y = \"y\" }\nexport default B"})
	a := u.File.Lookup("A")[0]
	b := u.File.Lookup("B")[0]

	first := NewReferenceTable()
	first.Add(Reference{Name: "A", Form: Named, Unit: u, Decl: a})
	second := NewReferenceTable()
	second.Add(Reference{Name: "B", Form: Default, Unit: u, Decl: b})
	second.Add(Reference{Name: "A", Form: Named, Unit: u, Decl: a})

	merged := NewReferenceTable().Merge(first).Merge(second)
	require.Len(t, merged.Entries(), 1)
	entry := merged.Entries()[0]
	assert.Len(t, entry.Named, 1)
	assert.Len(t, entry.Default, 1)
	assert.Equal(t, 2, merged.Len())
	assert.NoError(t, merged.CheckConflicts())
}
