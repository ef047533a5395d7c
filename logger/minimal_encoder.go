package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset  = "\x1b[0m"
	colorBold   = "\x1b[1m"
	colorDim    = "\x1b[38;5;245m"
	colorYellow = "\x1b[38;5;214m"
	colorRed    = "\x1b[38;5;167m"
	colorAqua   = "\x1b[38;5;108m"
)

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  WARN  generate  duplicate identifier  ident=OPCODE_ADD line=3"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	color           bool
}

func newMinimalEncoder() *minimalEncoder {
	// Base JSON encoder only backs the embedded ObjectEncoder methods
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return &minimalEncoder{
		Encoder: baseEncoder,
		color:   os.Getenv("NO_COLOR") == "",
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		color:   enc.color,
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(enc.paint(colorDim, ent.Time.Format("15:04:05")))

	// Level: only shown when it is not INFO
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(enc.levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(colorAqua, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	if len(fields) > 0 {
		final.AppendString("  ")
		final.AppendString(formatFields(fields))
	}

	final.AppendString("\n")
	return final, nil
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) levelString(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return enc.paint(colorDim, "DEBUG")
	case zapcore.WarnLevel:
		return enc.paint(colorBold+colorYellow, "WARN")
	default:
		return enc.paint(colorBold+colorRed, level.CapitalString())
	}
}

// formatFields renders fields as key=value pairs in the order they were given
func formatFields(fields []zapcore.Field) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		m := zapcore.NewMapObjectEncoder()
		field.AddTo(m)
		value, ok := m.Fields[field.Key]
		if !ok {
			continue
		}
		parts = append(parts, field.Key+"="+fieldValueString(value))
	}
	return strings.Join(parts, " ")
}

func fieldValueString(v interface{}) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case error:
		return fmt.Sprintf("%q", val.Error())
	default:
		return fmt.Sprintf("%v", val)
	}
}
