package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitializeWriter(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
		contains   string
	}{
		{"JSON output mode", true, VerbosityUser, `"msg":"careful"`},
		{"Console output mode", false, VerbosityUser, "WARN  careful"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, InitializeWriter(&buf, tt.jsonOutput, tt.verbosity))
			t.Cleanup(func() { Logger = nil; Initialize(false, 0) })

			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Infow("hidden at user verbosity")
			Warnw("careful", FieldTag, "see")
			Cleanup()

			assert.Contains(t, buf.String(), tt.contains)
			assert.NotContains(t, buf.String(), "hidden")
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(0, OutputResults))
	assert.False(t, ShouldOutput(0, OutputSummary))
	assert.True(t, ShouldOutput(1, OutputSummary))
	assert.True(t, ShouldOutput(1, OutputWatch))
	assert.False(t, ShouldOutput(2, OutputCategory(99)))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Debug (-vv)", LevelName(VerbosityDebug))
	assert.Equal(t, "Trace (-vvv+)", LevelName(9))
	assert.Equal(t, "Unknown", LevelName(-1))
}

func TestHelpersSurviveNilLogger(t *testing.T) {
	Logger = nil
	t.Cleanup(func() { Initialize(false, 0) })

	assert.NotPanics(t, func() {
		Infow("a")
		Warnw("b")
		Errorw("c")
		Debugw("d")
		Cleanup()
	})
}
