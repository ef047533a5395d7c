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

func encode(t *testing.T, enc *minimalEncoder, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(ent, fields)
	require.NoError(t, err)
	defer buf.Free()
	return stripANSI(buf.String())
}

// The encoder must never silently discard fields: every key given
// must show up in the line.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "generate",
		Message:    "rendered lines",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldTarget, "cpp"), "target=cpp"},
		{zap.Int(FieldLines, 42), "lines=42"},
		{zap.Bool("stdout", true), "stdout=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.String(FieldInput, "defs/opcodes.yaml"), "input=defs/opcodes.yaml"},
		{zap.String("note", "two words"), `note="two words"`},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
	}

	fields := make([]zapcore.Field, len(testFields))
	for i, tf := range testFields {
		fields[i] = tf.field
	}

	out := encode(t, encoder, entry, fields...)
	for _, tf := range testFields {
		assert.Contains(t, out, tf.mustFind)
	}
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestMinimalEncoderLayout(t *testing.T) {
	encoder := newMinimalEncoder()
	ts := time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC)

	tests := []struct {
		name  string
		entry zapcore.Entry
		want  string
	}{
		{
			name:  "info hides level",
			entry: zapcore.Entry{Level: zapcore.InfoLevel, Time: ts, Message: "loaded"},
			want:  "13:04:35  loaded\n",
		},
		{
			name:  "warn shows level and component",
			entry: zapcore.Entry{Level: zapcore.WarnLevel, Time: ts, LoggerName: "watch", Message: "regenerate failed"},
			want:  "13:04:35  WARN  watch  regenerate failed\n",
		},
		{
			name:  "error level",
			entry: zapcore.Entry{Level: zapcore.ErrorLevel, Time: ts, Message: "boom"},
			want:  "13:04:35  ERROR  boom\n",
		},
		{
			name:  "debug level",
			entry: zapcore.Entry{Level: zapcore.DebugLevel, Time: ts, Message: "line"},
			want:  "13:04:35  DEBUG  line\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encode(t, encoder, tt.entry))
		})
	}
}

func TestMinimalEncoderNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	encoder := newMinimalEncoder()

	buf, err := encoder.EncodeEntry(zapcore.Entry{
		Level:   zapcore.WarnLevel,
		Time:    time.Now(),
		Message: "plain",
	}, nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestMinimalEncoderClone(t *testing.T) {
	encoder := newMinimalEncoder()
	clone, ok := encoder.Clone().(*minimalEncoder)
	require.True(t, ok)
	assert.Equal(t, encoder.color, clone.color)
}
