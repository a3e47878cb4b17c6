package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/oppscan/backend/pkg/config"
)

// Logger wraps zerolog behind the small surface the rest of the code uses.
// Loggers are immutable; the With* builders return derived instances.
type Logger struct {
	zlog zerolog.Logger
}

var levelNames = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// New builds the root logger from config. Format "console" or "pretty" gets
// a human-readable writer; anything else emits JSON lines. The level is set
// per instance, not globally, so tests can run loggers side by side.
func New(cfg *config.Config) *Logger {
	zlog := zerolog.New(writerFor(cfg.LogFormat)).
		Level(levelFor(cfg.LogLevel)).
		With().
		Timestamp().
		Str("env", cfg.Env).
		Logger()

	return &Logger{zlog: zlog}
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

func writerFor(format string) io.Writer {
	switch strings.ToLower(format) {
	case "console", "pretty":
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	default:
		return os.Stdout
	}
}

func levelFor(name string) zerolog.Level {
	if lvl, ok := levelNames[strings.ToLower(name)]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}

// WithField derives a logger carrying one extra field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zlog: l.zlog.With().Interface(key, value).Logger()}
}

// WithFields derives a logger carrying the given fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithError derives a logger carrying an error field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zlog: l.zlog.With().Err(err).Logger()}
}

func (l *Logger) Debug(msg string) { l.zlog.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zlog.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.zlog.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.zlog.Error().Msg(msg) }

// Fatal logs and exits the process
func (l *Logger) Fatal(msg string) { l.zlog.Fatal().Msg(msg) }
