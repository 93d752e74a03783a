package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Gruvbox Dark color palette (warm, muted, easy on eyes)
var gruvbox = struct {
	fg       string
	aqua     string
	orange   string
	yellow   string
	blue     string
	red      string
	redBg    string
	yellowBg string
}{
	fg:       "\x1b[38;5;223m", // Soft cream (#ebdbb2)
	aqua:     "\x1b[38;5;108m", // Muted cyan-green (#8ec07c)
	orange:   "\x1b[38;5;208m", // Warm orange (#fe8019)
	yellow:   "\x1b[38;5;214m", // Soft yellow (#fabd2f)
	blue:     "\x1b[38;5;109m", // Soft blue (#83a598)
	red:      "\x1b[38;5;167m", // Warm red (#fb4934)
	redBg:    "\x1b[48;5;88m",  // Dark red background
	yellowBg: "\x1b[48;5;58m",  // Dark yellow background
}

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder.
// Format: "WARN  transform  Unrecognized tag dropped  tag=see member=foo"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	color           bool
}

func newMinimalEncoder(color bool) *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		color:   color,
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		color:   enc.color,
	}
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color || s == "" {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()
	var parts []string

	// Level: only show for non-INFO entries
	if ent.Level != zapcore.InfoLevel {
		parts = append(parts, enc.levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		parts = append(parts, enc.paint(gruvbox.orange, ent.LoggerName))
	}

	parts = append(parts, enc.paint(gruvbox.fg, ent.Message))

	if kv := enc.fieldString(fields); kv != "" {
		parts = append(parts, kv)
	}

	final.AppendString(strings.Join(parts, "  "))
	final.AppendString("\n")
	return final, nil
}

func (enc *minimalEncoder) levelString(level zapcore.Level) string {
	name := level.CapitalString()
	if !enc.color {
		return name
	}
	switch level {
	case zapcore.DebugLevel:
		return gruvbox.blue + name + colorReset
	case zapcore.WarnLevel:
		return colorBold + gruvbox.yellowBg + gruvbox.yellow + name + colorReset
	default:
		return colorBold + gruvbox.redBg + gruvbox.red + name + colorReset
	}
}

// fieldString renders every field as key=value in the order given.
// No field is ever dropped.
func (enc *minimalEncoder) fieldString(fields []zapcore.Field) string {
	if len(fields) == 0 {
		return ""
	}
	m := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(m)
	}

	seen := make(map[string]bool, len(fields))
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		v, ok := m.Fields[f.Key]
		if !ok || seen[f.Key] {
			continue
		}
		seen[f.Key] = true
		pairs = append(pairs, enc.paint(gruvbox.aqua, f.Key)+"="+fmt.Sprintf("%v", v))
	}
	return strings.Join(pairs, " ")
}
