package typemodel

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/tsparse"
)

func memProgram(t *testing.T, files map[string]string) *Program {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, src := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/proj", name), []byte(src), 0o644))
	}
	return NewProgram(fs)
}

func load(t *testing.T, p *Program, name string) *Unit {
	t.Helper()
	u, err := p.Load(filepath.Join("/proj", name))
	require.NoError(t, err)
	return u
}

func aliasType(t *testing.T, u *Unit, name string) tsparse.Type {
	t.Helper()
	decls := u.File.Lookup(name)
	require.NotEmpty(t, decls, name)
	alias, ok := decls[0].(*tsparse.TypeAliasDecl)
	require.True(t, ok)
	return alias.Type
}

func TestClassifyPrimitivesAndArrays(t *testing.T) {
	p := memProgram(t, map[string]string{"main.ts": `
type S = string
type N = number
type B = boolean
type A = any
type U = unknown
type SA = string[]
type NA = Array<number>
type RA = readonly boolean[]
type RO = ReadonlyArray<string>
type Opt = string | undefined
type Nul = null | number
type TF = true | false
type P = (string)
type Mixed = string | number
type V = void
type L = "lit"
type Fn = () => void
`})
	u := load(t, p, "main.ts")

	tests := []struct {
		name string
		kind Kind
		elem Kind
	}{
		{"S", KindString, 0},
		{"N", KindNumber, 0},
		{"B", KindBoolean, 0},
		{"A", KindAny, 0},
		{"U", KindAny, 0},
		{"SA", KindArray, KindString},
		{"NA", KindArray, KindNumber},
		{"RA", KindArray, KindBoolean},
		{"RO", KindArray, KindString},
		{"Opt", KindString, 0},
		{"Nul", KindNumber, 0},
		{"TF", KindBoolean, 0},
		{"P", KindString, 0},
		{"Mixed", KindUnsupported, 0},
		{"V", KindUnsupported, 0},
		{"L", KindUnsupported, 0},
		{"Fn", KindUnsupported, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Classify(u, aliasType(t, u, tt.name))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, info.Kind)
			if tt.kind == KindArray {
				require.NotNil(t, info.Elem)
				assert.Equal(t, tt.elem, info.Elem.Kind)
			}
		})
	}
}

func TestClassifyUntyped(t *testing.T) {
	info, err := Classify(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, KindAny, info.Kind)
}

func TestClassifyEnumAndMember(t *testing.T) {
	p := memProgram(t, map[string]string{
		"color.ts": `export enum Color { A = "a", B = "b" }`,
		"main.ts": `
import { Color } from "./color"
type E = Color
type M = Color.B
type Missing = Color.Z
type Through = MaybeColor
type MaybeColor = Color | undefined
`,
	})
	u := load(t, p, "main.ts")

	enum, err := Classify(u, aliasType(t, u, "E"))
	require.NoError(t, err)
	assert.Equal(t, KindEnum, enum.Kind)
	require.NotNil(t, enum.Enum)
	assert.Equal(t, "Color", enum.Enum.Decl.Name)
	assert.Equal(t, "/proj/color.ts", enum.Enum.Unit.Path)

	member, err := Classify(u, aliasType(t, u, "M"))
	require.NoError(t, err)
	assert.Equal(t, KindEnumMember, member.Kind)
	assert.Equal(t, "B", member.Member)
	assert.Same(t, enum.Enum.Decl, member.Enum.Decl)

	through, err := Classify(u, aliasType(t, u, "Through"))
	require.NoError(t, err)
	assert.Equal(t, KindEnum, through.Kind)
	assert.Equal(t, "MaybeColor", through.Text)

	_, err = Classify(u, aliasType(t, u, "Missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolved))
}

func TestClassifyStructural(t *testing.T) {
	p := memProgram(t, map[string]string{
		"base.ts": `
export interface Base { shared: string; own: number }
`,
		"main.ts": `
import type { Base } from "./base"
interface Options extends Base { own: boolean; extra?: string[] }
interface Options { merged: number }
type Alias = { a: string }
type Both = Alias & { b: number }
type Lit = { c: boolean }
`,
	})
	u := load(t, p, "main.ts")

	names := func(s *Structure) []string {
		var out []string
		for _, m := range s.Members {
			out = append(out, m.Name)
		}
		return out
	}

	lookup, ok, err := u.Lookup("Options")
	require.NoError(t, err)
	require.True(t, ok)
	ref := &tsparse.RefType{Name: []string{"Options"}}
	info, err := Classify(u, ref)
	require.NoError(t, err)
	require.Equal(t, KindStructural, info.Kind)
	assert.Equal(t, []string{"own", "extra", "merged", "shared"}, names(info.Structure))
	assert.Same(t, lookup.Decls[0], info.Structure.Decl)

	own := info.Structure.Members[0]
	assert.Equal(t, "boolean", own.Type.Text())
	shared := info.Structure.Members[3]
	assert.Equal(t, "/proj/base.ts", shared.Unit.Path)

	alias, err := Classify(u, &tsparse.RefType{Name: []string{"Alias"}})
	require.NoError(t, err)
	require.Equal(t, KindStructural, alias.Kind)
	assert.NotNil(t, alias.Structure.Decl)

	both, err := Classify(u, aliasType(t, u, "Both"))
	require.NoError(t, err)
	require.Equal(t, KindStructural, both.Kind)
	assert.Equal(t, []string{"a", "b"}, names(both.Structure))
}

func TestClassifyUnresolved(t *testing.T) {
	p := memProgram(t, map[string]string{"main.ts": `type X = Nowhere`})
	u := load(t, p, "main.ts")

	info, err := Classify(u, aliasType(t, u, "X"))
	require.NoError(t, err)
	assert.Equal(t, KindUnsupported, info.Kind)
	assert.True(t, info.Unresolved)
}

func TestClassifyAliasCycle(t *testing.T) {
	p := memProgram(t, map[string]string{"main.ts": "type A = B\ntype B = A\n"})
	u := load(t, p, "main.ts")

	info, err := Classify(u, aliasType(t, u, "A"))
	require.NoError(t, err)
	assert.Equal(t, KindUnsupported, info.Kind)
}

func TestResolveExportChains(t *testing.T) {
	p := memProgram(t, map[string]string{
		"enums/color.ts": `export enum Color { A = "a" }`,
		"enums/index.ts": `export * from "./color"`,
		"reexport.ts":    `export { Color as Hue } from "./enums"`,
		"defaults.ts":    "enum Size { S = \"s\" }\nexport default Size\n",
		"main.ts": `
import { Hue } from "./reexport.js"
import Size from "./defaults"
import * as ns from "./enums/index"
type H = Hue
type S = Size
type N = ns.Color
type NM = ns.Color.A
`,
	})
	u := load(t, p, "main.ts")

	for _, name := range []string{"H", "N", "NM"} {
		info, err := Classify(u, aliasType(t, u, name))
		require.NoError(t, err, name)
		require.NotNil(t, info.Enum, name)
		assert.Equal(t, "Color", info.Enum.Decl.Name, name)
		assert.Equal(t, "/proj/enums/color.ts", info.Enum.Unit.Path, name)
	}

	size, err := Classify(u, aliasType(t, u, "S"))
	require.NoError(t, err)
	assert.Equal(t, KindEnum, size.Kind)
	assert.True(t, size.Enum.Unit.IsDefaultExport(size.Enum.Decl))
}

func TestResolveModuleErrors(t *testing.T) {
	p := memProgram(t, map[string]string{"main.ts": `export function f() {}`})
	u := load(t, p, "main.ts")

	_, err := u.ResolveModule("yargs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolved))
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = u.ResolveModule("./missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolved))
}

func TestExportQueries(t *testing.T) {
	p := memProgram(t, map[string]string{"main.ts": `
export enum A { X = "x" }
enum B { X = "x" }
enum C { X = "x" }
enum D { X = "x" }
export default function () {}
export { C as Renamed }
export { D }
`})
	u := load(t, p, "main.ts")
	decl := func(name string) tsparse.Decl { return u.File.Lookup(name)[0] }

	assert.True(t, u.IsExported(decl("A")))
	assert.False(t, u.IsExported(decl("B")))
	assert.True(t, u.IsExported(decl("C")))

	name, ok := u.ExportName(decl("C"))
	assert.True(t, ok)
	assert.Equal(t, "Renamed", name)

	name, ok = u.ExportName(decl("D"))
	assert.True(t, ok)
	assert.Equal(t, "D", name)

	anon := u.File.DefaultDecl()
	require.NotNil(t, anon)
	assert.True(t, u.IsDefaultExport(anon))
	assert.False(t, u.IsDefaultExport(decl("A")))
}

func TestProgramLoad(t *testing.T) {
	p := memProgram(t, map[string]string{"cmd/main.ts": `export function f() {}`})

	u := load(t, p, "cmd/main.ts")
	again := load(t, p, "cmd/main.ts")
	assert.Same(t, u, again)
	assert.Equal(t, "main", u.BaseName())
	assert.Equal(t, `"/proj/cmd/main".Color`, u.QualifiedName("Color"))
	assert.Len(t, p.Units(), 1)

	_, err := p.Load("/proj/none.ts")
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))

	stdin, err := p.AddSource(filepath.Join("/proj", StdinName), `export function g() {}`)
	require.NoError(t, err)
	assert.True(t, stdin.Virtual)
	assert.Equal(t, "/proj/cmd/main.ts", mustResolve(t, stdin, "./cmd/main").Path)
}

func mustResolve(t *testing.T, u *Unit, spec string) *Unit {
	t.Helper()
	target, err := u.ResolveModule(spec)
	require.NoError(t, err)
	return target
}

func TestTrimSourceExt(t *testing.T) {
	assert.Equal(t, "a/b", TrimSourceExt("a/b.d.ts"))
	assert.Equal(t, "a/b", TrimSourceExt("a/b.tsx"))
	assert.Equal(t, "a/b.txt", TrimSourceExt("a/b.txt"))
}

func TestDocumentationTags(t *testing.T) {
	f, err := tsparse.Parse("doc.ts", `
/** ignored */
/**
 * Does a thing.
 * @alias a
 * @alias b
 * @required
 */
export function f() {}
`)
	require.NoError(t, err)
	block := Documentation(f.Functions()[0].Doc)
	require.NotNil(t, block)
	assert.Equal(t, "Does a thing.", block.Description)

	aliases := Tags(block, TagName("alias"))
	require.Len(t, aliases, 2)
	assert.Equal(t, "a", Tag(block, TagName("alias"), 0).Text())
	assert.Equal(t, "b", Tag(block, TagName("alias"), -1).Text())

	required := Tags(block, TagPattern{regexp.MustCompile(`^(demandOption|require|required)$`)})
	assert.Len(t, required, 1)

	all := Tags(block, TagFunc(func(*tsparse.Tag) bool { return true }))
	assert.Len(t, all, 3)

	assert.Empty(t, Tags(block, TagName("default")))
	assert.Nil(t, Tag(block, TagName("default"), 0))
	assert.Nil(t, Documentation(nil))
	assert.Nil(t, Tags(nil, TagName("alias")))
}

func TestResolvePackage(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/node_modules/yargs/package.json",
		[]byte(`{"name":"yargs","version":"17.7.2","main":"./index.cjs"}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/proj/node_modules/bare/package.json",
		[]byte(`{"name":"bare","version":"1.0.0"}`), 0o644))

	pkg, err := ResolvePackage(fs, "yargs", "/proj/src/deep")
	require.NoError(t, err)
	assert.Equal(t, "/proj/node_modules/yargs", pkg.Dir)
	assert.Equal(t, "/proj/node_modules/yargs/index.cjs", pkg.Main)
	assert.Equal(t, "17.7.2", pkg.Version)

	bare, err := ResolvePackage(fs, "bare", "/proj")
	require.NoError(t, err)
	assert.Equal(t, "/proj/node_modules/bare/index.js", bare.Main)

	_, err = ResolvePackage(fs, "absent", "/proj")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolved))
}
