package resolver

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/tscli/errors"
	"github.com/teranos/tscli/logger"
	"github.com/teranos/tscli/typemodel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func unit(t *testing.T, src string) *typemodel.Unit {
	t.Helper()
	p := typemodel.NewProgram(afero.NewMemMapFs())
	u, err := p.AddSource("/src/cmd.ts", src)
	require.NoError(t, err)
	return u
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
		err  error
	}{
		{
			name: "no functions",
			src:  `export const x = 1`,
			err:  errors.ErrNoFunctionFound,
		},
		{
			name: "single unexported function",
			src:  `function cmd(foo: string) {}`,
			want: "cmd",
		},
		{
			name: "several functions none exported",
			src:  "function a() {}\nfunction b() {}",
			err:  errors.ErrNoExportedFunctionFound,
		},
		{
			name: "single exported among several",
			src:  "function helper() {}\nexport function cmd() {}",
			want: "cmd",
		},
		{
			name: "default beats named",
			src:  "export function first() {}\nexport default function second() {}",
			want: "second",
		},
		{
			name: "default via export statement",
			src:  "export function first() {}\nfunction second() {}\nexport default second",
			want: "second",
		},
		{
			name: "tagged beats untagged",
			src:  "export function plain() {}\n/** @command */\nexport function tagged() {}",
			want: "tagged",
		},
		{
			name: "default beats tagged",
			src:  "/** @command */\nexport function tagged() {}\nexport default function main() {}",
			want: "main",
		},
		{
			name: "untagged tie keeps declaration order",
			src:  "export function one() {}\nexport function two() {}",
			want: "one",
		},
		{
			name: "exported via local export list",
			src:  "function hidden() {}\nfunction shown() {}\nexport { shown }",
			want: "shown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := Resolve(unit(t, tt.src))
			if tt.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.err))
				assert.NotEmpty(t, errors.GetAllHints(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fn.Name)
		})
	}
}

func TestResolveTaggedTieIsStable(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Logger = prev })

	src := "/** @command */\nexport function alpha() {}\n/** @command */\nexport function beta() {}"
	for i := 0; i < 5; i++ {
		fn, err := Resolve(unit(t, src))
		require.NoError(t, err)
		assert.Equal(t, "alpha", fn.Name)
	}
	assert.Equal(t, 5, logs.FilterMessageSnippet("tagged @command").Len())
}

func TestIsTagged(t *testing.T) {
	u := unit(t, "/** @command */\nexport function a() {}\n/** just docs */\nexport function b() {}")
	fns := u.File.Functions()
	assert.True(t, IsTagged(fns[0]))
	assert.False(t, IsTagged(fns[1]))
}
