// internal/logger/pretty.go
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Цвета для терминала
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// PrettyEncoder creates a user-friendly console encoder
func PrettyEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(prettyEncoderConfig())
}

func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(ColorCyan + "[DEBUG]" + ColorReset)
	case zapcore.InfoLevel:
		enc.AppendString(ColorGreen + "[INFO]" + ColorReset)
	case zapcore.WarnLevel:
		enc.AppendString(ColorYellow + "[WARN]" + ColorReset)
	case zapcore.ErrorLevel:
		enc.AppendString(ColorRed + "[ERROR]" + ColorReset)
	case zapcore.FatalLevel:
		enc.AppendString(ColorRed + ColorBold + "[FATAL]" + ColorReset)
	default:
		enc.AppendString("[" + level.CapitalString() + "]")
	}
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

// CreatePrettyLogger creates a logger with user-friendly console output
func CreatePrettyLogger(debug bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(PrettyEncoder(), zapcore.Lock(os.Stdout), level)
	return zap.New(&FieldFilterCore{core: core}), nil
}

// FormatMessage превращает служебные сообщения в короткие строки для консоли.
// Неизвестные сообщения возвращаются без изменений.
func FormatMessage(msg string, fields ...zapcore.Field) string {
	switch {
	case strings.Contains(msg, "Snapshot loaded"):
		market := extractField(fields, "market")
		levels := extractField(fields, "levels")
		return fmt.Sprintf("%s📋 Snapshot %s loaded (%s levels)%s", ColorBlue, market, levels, ColorReset)

	case strings.Contains(msg, "Snapshot load retry"):
		attempt := extractField(fields, "attempt")
		return fmt.Sprintf("%s↻ Retrying snapshot load, attempt %s%s", ColorYellow, attempt, ColorReset)

	case strings.Contains(msg, "Quote computed"):
		direction := extractField(fields, "direction")
		worst := extractField(fields, "worst_price")
		return fmt.Sprintf("%s⚡ %s quote ready, worst price %s%s", ColorCyan, strings.ToUpper(direction), worst, ColorReset)

	case strings.Contains(msg, "No liquidity"):
		return fmt.Sprintf("%s⚠ No liquidity on the requested side%s", ColorYellow, ColorReset)

	case strings.Contains(msg, "High price impact"):
		severity := extractField(fields, "severity")
		return fmt.Sprintf("%s⚠ Price impact is %s%s", ColorRed, severity, ColorReset)

	case strings.Contains(msg, "Batch completed"):
		count := extractField(fields, "count")
		return fmt.Sprintf("%s✅ %s quotes computed%s", ColorGreen, count, ColorReset)

	case strings.Contains(msg, "Quotes exported"):
		path := extractField(fields, "path")
		return fmt.Sprintf("%s💾 Quotes exported to %s%s", ColorPurple, path, ColorReset)

	default:
		return msg
	}
}

func extractField(fields []zapcore.Field, key string) string {
	for _, field := range fields {
		if field.Key != key {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Uint64Type, zapcore.Uint32Type:
			return fmt.Sprintf("%d", field.Integer)
		case zapcore.StringerType:
			if s, ok := field.Interface.(fmt.Stringer); ok {
				return s.String()
			}
		}
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// FieldFilterCore отбрасывает структурированные поля и печатает
// только отформатированное сообщение
type FieldFilterCore struct {
	core   zapcore.Core
	fields []zapcore.Field
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

// With накапливает поля для FormatMessage, но не передает их в вывод
func (c *FieldFilterCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &FieldFilterCore{core: c.core, fields: merged}
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := append(append([]zapcore.Field{}, c.fields...), fields...)
	clean := entry
	clean.Message = FormatMessage(entry.Message, all...)
	return c.core.Write(clean, nil)
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}

// CreateTUILoggerWithBuffer пишет только в буфер, без stdout,
// чтобы не ломать интерфейс
func CreateTUILoggerWithBuffer(debug bool, buffer *LogBuffer) (*zap.Logger, error) {
	if buffer == nil {
		return nil, fmt.Errorf("buffer is required for TUI logger")
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(buffer), level)
	return zap.New(core), nil
}
