package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWithConfig_Levels(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, NewWithConfig("x", Config{AppEnv: "production", Out: &bytes.Buffer{}}).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, NewWithConfig("x", Config{AppEnv: "development", Out: &bytes.Buffer{}}).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, NewWithConfig("x", Config{AppEnv: "production", Level: "WARN", Out: &bytes.Buffer{}}).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, NewWithConfig("x", Config{Level: "loud", Out: &bytes.Buffer{}}).GetLevel())
}

func TestLogger_ComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig("batch", Config{AppEnv: "production", Out: &buf})
	l.Info().Str("url", "https://r.example/1").Msg("Done")

	out := buf.String()
	assert.Contains(t, out, "[batch] Done")
	assert.Contains(t, out, "url=https://r.example/1")
}

func TestElapsed(t *testing.T) {
	assert.Equal(t, "1.25s", Elapsed(1250*time.Millisecond))
}

func TestLogger_WithUsesChildPrefix(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithConfig("main", Config{AppEnv: "production", Level: "warn", Out: &buf})
	child := parent.With("batch")

	child.Warn().Msg("hello")
	child.Info().Msg("below level")

	out := buf.String()
	assert.Contains(t, out, "[batch] hello")
	assert.NotContains(t, out, "[main]")
	assert.NotContains(t, out, "below level")
	assert.Equal(t, zerolog.WarnLevel, child.GetLevel())
}

func TestNop_WithStaysSilent(t *testing.T) {
	child := Nop().With("batch")
	assert.Equal(t, zerolog.Disabled, child.GetLevel())
}
