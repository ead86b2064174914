package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a zerolog logger tagged with the component that owns it
type Logger struct {
	zerolog.Logger
	component string
	cfg       *Config // nil for Nop
}

var levels = map[string]zerolog.Level{
	"development": zerolog.DebugLevel,
	"staging":     zerolog.InfoLevel,
	"production":  zerolog.InfoLevel,
}

// Config represents logger configuration
type Config struct {
	AppEnv string
	Level  string // overrides the environment default when set
	Out    io.Writer
}

// New creates a logger for component configured from APP_ENV and LOG_LEVEL
func New(component string) *Logger {
	return NewWithConfig(component, Config{
		AppEnv: os.Getenv("APP_ENV"),
		Level:  os.Getenv("LOG_LEVEL"),
	})
}

// NewWithConfig creates a logger for component with explicit settings
func NewWithConfig(component string, cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("[%s] %v", component, i)
		},
	}
	if cfg.AppEnv == "production" {
		output.NoColor = true
	}

	zl := zerolog.New(output).
		Level(levelFor(cfg)).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: zl, component: component, cfg: &cfg}
}

// Nop returns a logger that discards everything, for tests
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop(), component: "nop"}
}

// With returns a logger for a sub-component writing to the same output at
// the same level, with its own [component] prefix
func (l *Logger) With(component string) *Logger {
	if l.cfg == nil {
		return &Logger{Logger: zerolog.Nop(), component: component}
	}
	child := NewWithConfig(component, *l.cfg)
	child.Logger = child.Logger.Level(l.GetLevel())
	return child
}

func levelFor(cfg Config) zerolog.Level {
	if cfg.Level != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil {
			return lvl
		}
	}
	if lvl, ok := levels[cfg.AppEnv]; ok {
		return lvl
	}
	return zerolog.DebugLevel
}

// Elapsed formats a duration the way the run log reports it
func Elapsed(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
