package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"quiet", LevelQuiet, zerolog.ErrorLevel},
		{"default warn level", LevelDefault, zerolog.WarnLevel},
		{"verbose info level", LevelVerbose, zerolog.InfoLevel},
		{"debug level", LevelDebug, zerolog.DebugLevel},
		{"high verbosity is trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DebugEnvVar, "")
			SetupLogger(tt.verbosity, &bytes.Buffer{})
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestSetupLogger_DebugEnv(t *testing.T) {
	t.Setenv(DebugEnvVar, "1")

	SetupLogger(LevelDefault, &bytes.Buffer{})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestGetLogger_Component(t *testing.T) {
	t.Setenv(DebugEnvVar, "")
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	SetupLogger(LevelDebug, &buf)

	logger := GetLogger("runner")
	logger.Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "runner")
}

func TestLogDuration(t *testing.T) {
	t.Setenv(DebugEnvVar, "")
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	SetupLogger(LevelDebug, &buf)

	LogDuration(GetLogger("test"), time.Now(), "plan")
	assert.Contains(t, buf.String(), "plan")
}
