package emit

import (
	"bytes"
	"os"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/tscli/errors"
)

const code = `export default function main(): void {
  console.log("hi");
}
`

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

type harness struct {
	fs     afero.Fs
	stdout bytes.Buffer
	stderr bytes.Buffer
	asked  int
}

func newHarness() *harness {
	return &harness{fs: afero.NewMemMapFs()}
}

func (h *harness) options(answer bool) Options {
	return Options{
		Fs:     h.fs,
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Confirm: func(string) (bool, error) {
			h.asked++
			return answer, nil
		},
	}
}

func TestEmitStdout(t *testing.T) {
	h := newHarness()
	env, err := Emit(Output{Source: "/proj/cmd.ts", Code: code}, h.options(true))
	require.NoError(t, err)
	assert.Equal(t, code, h.stdout.String())
	assert.Empty(t, env.Written)
	assert.Equal(t, LanguageTypeScript, env.Language)
	assert.Empty(t, h.stderr.String())
}

func TestEmitJSONEnvelope(t *testing.T) {
	h := newHarness()
	opts := h.options(true)
	opts.JSON = true
	_, err := Emit(Output{Source: "/proj/cmd.ts", Code: code}, opts)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &env))
	assert.Equal(t, "/proj/cmd.ts", env.Source)
	assert.Empty(t, env.Destination)
	assert.Equal(t, code, env.Code)
	assert.Equal(t, "typescript", env.Language)
	assert.Equal(t, Formatting{Indent: 2, Quote: "double", Semicolons: true, Width: 80}, env.Formatting)
	assert.Empty(t, env.Written)
	assert.Contains(t, env.Generator, "tscli")
}

func TestEmitColor(t *testing.T) {
	h := newHarness()
	opts := h.options(true)
	opts.Color = true
	_, err := Emit(Output{Source: "-", Code: code}, opts)
	require.NoError(t, err)
	assert.Contains(t, h.stdout.String(), "\x1b[")
	assert.NotEqual(t, code, h.stdout.String())
}

func TestEmitFile(t *testing.T) {
	h := newHarness()
	env, err := Emit(Output{Source: "/proj/cmd.ts", Destination: "/proj/bin/cli.ts", Code: code}, h.options(true))
	require.NoError(t, err)

	data, err := afero.ReadFile(h.fs, "/proj/bin/cli.ts")
	require.NoError(t, err)
	assert.Equal(t, code, string(data))
	assert.Equal(t, []string{"/proj/bin/cli.ts"}, env.Written)
	assert.Zero(t, h.asked)
	assert.Contains(t, h.stderr.String(), "CLI script created at /proj/bin/cli.ts")
	assert.Empty(t, h.stdout.String())
}

func TestEmitOverwrite(t *testing.T) {
	tests := []struct {
		name   string
		force  bool
		answer bool
		asked  int
		want   string
		err    error
	}{
		{name: "declined", answer: false, asked: 1, want: "old", err: errors.ErrCanceled},
		{name: "accepted", answer: true, asked: 1, want: code},
		{name: "forced", force: true, answer: false, asked: 0, want: code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			require.NoError(t, afero.WriteFile(h.fs, "/proj/cli.ts", []byte("old"), 0o644))
			opts := h.options(tt.answer)
			opts.Force = tt.force

			_, err := Emit(Output{Source: "/proj/cmd.ts", Destination: "/proj/cli.ts", Code: code}, opts)
			if tt.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.err))
				assert.Equal(t, "Canceled", err.Error())
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.asked, h.asked)

			data, err := afero.ReadFile(h.fs, "/proj/cli.ts")
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestEmitConfirmError(t *testing.T) {
	h := newHarness()
	require.NoError(t, afero.WriteFile(h.fs, "/proj/cli.ts", []byte("old"), 0o644))
	opts := h.options(true)
	opts.Confirm = func(string) (bool, error) { return false, errors.New("interrupted") }

	_, err := Emit(Output{Source: "/proj/cmd.ts", Destination: "/proj/cli.ts", Code: code}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interrupted")
	assert.False(t, errors.Is(err, errors.ErrCanceled))
}

func TestEmitJavaScript(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		h := newHarness()
		opts := h.options(true)
		opts.JS = true
		env, err := Emit(Output{Source: "-", Code: code}, opts)
		require.NoError(t, err)
		assert.Equal(t, LanguageJavaScript, env.Language)
		assert.Contains(t, h.stdout.String(), "function main() {")
		assert.NotContains(t, h.stdout.String(), ": void")
	})

	t.Run("sibling file", func(t *testing.T) {
		h := newHarness()
		opts := h.options(true)
		opts.JS = true
		env, err := Emit(Output{Source: "/proj/cmd.ts", Destination: "/proj/cli.ts", Code: code}, opts)
		require.NoError(t, err)
		assert.Equal(t, []string{"/proj/cli.ts", "/proj/cli.js"}, env.Written)

		js, err := afero.ReadFile(h.fs, "/proj/cli.js")
		require.NoError(t, err)
		assert.NotContains(t, string(js), ": void")
	})

	t.Run("js destination", func(t *testing.T) {
		h := newHarness()
		opts := h.options(true)
		opts.JS = true
		env, err := Emit(Output{Source: "/proj/cmd.ts", Destination: "/proj/cli.js", Code: code}, opts)
		require.NoError(t, err)
		assert.Equal(t, []string{"/proj/cli.js"}, env.Written)
		ok, err := afero.Exists(h.fs, "/proj/cli.ts")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

// failingFs refuses to create files whose name ends in suffix.
type failingFs struct {
	afero.Fs
	suffix string
}

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if strings.HasSuffix(name, f.suffix) {
		return nil, errors.New("disk full")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestEmitJavaScriptWriteFailureKeepsPair(t *testing.T) {
	h := newHarness()
	require.NoError(t, afero.WriteFile(h.fs, "/proj/cli.ts", []byte("// old ts\n"), 0o644))
	require.NoError(t, afero.WriteFile(h.fs, "/proj/cli.js", []byte("// old js\n"), 0o644))

	opts := h.options(true)
	opts.Fs = failingFs{Fs: h.fs, suffix: ".js" + stagingSuffix}
	opts.JS = true
	opts.Force = true
	_, err := Emit(Output{Source: "/proj/cmd.ts", Destination: "/proj/cli.ts", Code: code}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	ts, err := afero.ReadFile(h.fs, "/proj/cli.ts")
	require.NoError(t, err)
	assert.Equal(t, "// old ts\n", string(ts))
	js, err := afero.ReadFile(h.fs, "/proj/cli.js")
	require.NoError(t, err)
	assert.Equal(t, "// old js\n", string(js))

	names, err := afero.Glob(h.fs, "/proj/*"+stagingSuffix)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, h.stderr.String())
}

func TestTranspileError(t *testing.T) {
	_, err := Transpile("function (", "bad.ts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to transpile")
}

func TestEmitVerboseSummary(t *testing.T) {
	h := newHarness()
	opts := h.options(true)
	opts.Verbose = 1
	opts.Command = []string{"tscli", "generate", "my file.ts", "--output"}

	_, err := Emit(Output{Source: "/proj/my file.ts", Code: code}, opts)
	require.NoError(t, err)
	out := h.stderr.String()
	assert.Contains(t, out, "from: /proj/my file.ts")
	assert.Contains(t, out, "to:   stdout")
	assert.Contains(t, out, "reproduce: tscli generate 'my file.ts' --output")
	assert.Equal(t, code, h.stdout.String())
}

func TestTerminalConfirmWithoutTerminal(t *testing.T) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		t.Skip("stdin is a terminal")
	}
	ok, err := TerminalConfirm("overwrite?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnswer(t *testing.T) {
	ok, err := Answer(true)("q")
	require.NoError(t, err)
	assert.True(t, ok)
}
