package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// The minimal encoder must never silently discard fields.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder(true)

	entry := zapcore.Entry{
		Level:      zapcore.WarnLevel,
		Time:       time.Now(),
		LoggerName: "transform",
		Message:    "Unrecognized tag dropped",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String("tag", "see"), "tag=see"},
		{zap.String("member", "foo"), "member=foo"},
		{zap.Int("line", 12), "line=12"},
		{zap.Bool("optional", true), "optional=true"},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
		{zap.Error(nil), ""},
	}

	var all []zapcore.Field
	for _, tf := range testFields {
		all = append(all, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, all)
	require.NoError(t, err)

	clean := stripANSI(buf.String())
	for _, tf := range testFields {
		if tf.mustFind != "" {
			assert.Contains(t, clean, tf.mustFind)
		}
	}
	assert.True(t, strings.HasPrefix(clean, "WARN  transform  Unrecognized tag dropped"), clean)
}

func TestMinimalEncoderPlain(t *testing.T) {
	encoder := newMinimalEncoder(false)

	buf, err := encoder.EncodeEntry(zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Message: "Generated",
	}, []zapcore.Field{zap.String("output", "cli.ts")})
	require.NoError(t, err)

	assert.Equal(t, "Generated  output=cli.ts\n", buf.String())
}

func TestMinimalEncoderFieldOrder(t *testing.T) {
	encoder := newMinimalEncoder(false)

	buf, err := encoder.EncodeEntry(zapcore.Entry{Level: zapcore.DebugLevel, Message: "m"},
		[]zapcore.Field{zap.Int("b", 2), zap.Int("a", 1), zap.Int("c", 3)})
	require.NoError(t, err)

	assert.Equal(t, "DEBUG  m  b=2 a=1 c=3\n", buf.String())
}
