package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

const (
	LevelCritical = slog.Level(12)

	FormatJSON   = "json"
	FormatText   = "text"
	FormatPretty = "pretty"
)

type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
	Critical(message string, args ...any)
	BusinessError(message string, err error, args ...any)
	InternalError(message string, err error, args ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	base *slog.Logger
}

// NewFromEnv reads ENV, LOG_LEVEL and LOG_FORMAT. Without LOG_FORMAT the
// output is colored when stdout is a terminal and JSON otherwise.
func NewFromEnv() Logger {
	env := normalizeValue(os.Getenv("ENV"))
	level := parseLevel(os.Getenv("LOG_LEVEL"), env)
	terminal := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	format := parseFormat(os.Getenv("LOG_FORMAT"), terminal)
	return New(os.Stdout, level, format).With("service", "dues-app")
}

func New(output io.Writer, level slog.Level, format string) Logger {
	return &slogLogger{base: slog.New(newHandler(output, level, format))}
}

func newHandler(output io.Writer, level slog.Level, format string) slog.Handler {
	switch normalizeValue(format) {
	case FormatJSON:
		return slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr})
	case FormatPretty:
		return tint.NewHandler(output, &tint.Options{
			Level:       level,
			TimeFormat:  time.Kitchen,
			ReplaceAttr: replaceAttr,
		})
	default:
		return slog.NewTextHandler(output, &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr})
	}
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return New(io.Discard, slog.LevelError, FormatText)
}

// ErrorLog adapts l for consumers of the standard log package such as
// http.Server.ErrorLog. Lines are written at error level.
func ErrorLog(l Logger) *log.Logger {
	if sl, ok := l.(*slogLogger); ok {
		return slog.NewLogLogger(sl.base.Handler(), slog.LevelError)
	}
	return log.New(writerFunc(func(p []byte) (int, error) {
		l.Error(strings.TrimRight(string(p), "\n"))
		return len(p), nil
	}), "", 0)
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}

func (l *slogLogger) Debug(message string, args ...any) {
	l.base.Debug(message, args...)
}

func (l *slogLogger) Info(message string, args ...any) {
	l.base.Info(message, args...)
}

func (l *slogLogger) Warn(message string, args ...any) {
	l.base.Warn(message, args...)
}

func (l *slogLogger) Error(message string, args ...any) {
	l.base.Error(message, args...)
}

func (l *slogLogger) Critical(message string, args ...any) {
	l.base.Log(context.Background(), LevelCritical, message, args...)
}

// BusinessError logs expected failures (validation, conflicts, missing rows)
// at warn level. A nil err is ignored.
func (l *slogLogger) BusinessError(message string, err error, args ...any) {
	if err == nil {
		return
	}
	l.base.Warn(message, append([]any{"err", err}, args...)...)
}

func (l *slogLogger) InternalError(message string, err error, args ...any) {
	if err == nil {
		return
	}
	l.base.Error(message, append([]any{"err", err}, args...)...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{base: l.base.With(args...)}
}

func parseLevel(value string, env string) slog.Level {
	switch normalizeValue(value) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical", "fatal":
		return LevelCritical
	case "info":
		return slog.LevelInfo
	}
	if env == "" || env == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func parseFormat(value string, terminal bool) string {
	switch format := normalizeValue(value); format {
	case FormatJSON, FormatText, FormatPretty:
		return format
	case "":
		if terminal {
			return FormatPretty
		}
	}
	return FormatJSON
}

func normalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func replaceAttr(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key != slog.LevelKey {
		return attr
	}
	if level, ok := attr.Value.Any().(slog.Level); ok && level == LevelCritical {
		attr.Value = slog.StringValue("CRITICAL")
	}
	return attr
}
