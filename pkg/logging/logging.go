// Package logging configures the zerolog logger shared by all packages
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DebugEnvVar enables debug logging regardless of flags when set
const DebugEnvVar = "LINT_STAGED_DEBUG"

// Verbosity levels accepted by SetupLogger
const (
	LevelQuiet   = -1
	LevelDefault = 0
	LevelVerbose = 1
	LevelDebug   = 2
)

// SetupLogger configures the global logger for the given verbosity, writing
// human readable output to w (stderr when nil)
func SetupLogger(verbosity int, w io.Writer) {
	if os.Getenv(DebugEnvVar) != "" && verbosity < LevelDebug {
		verbosity = LevelDebug
	}

	switch {
	case verbosity <= LevelQuiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbosity == LevelDefault:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case verbosity == LevelVerbose:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case verbosity == LevelDebug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	if w == nil {
		w = os.Stderr
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}

	logger := zerolog.New(console).With().Timestamp()
	if verbosity >= LevelDebug {
		logger = logger.Caller()
	}
	log.Logger = logger.Logger()

	log.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
}

// GetLogger returns a logger tagged with the given component name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogDuration logs the duration of an operation at debug level
func LogDuration(logger zerolog.Logger, start time.Time, operation string) {
	logger.Debug().
		Str("operation", operation).
		Dur("duration", time.Since(start)).
		Msg("Operation completed")
}
