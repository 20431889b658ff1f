// Package corelog configures the process-wide zerolog logger: a pretty
// console writer by default, with level control via an environment variable.
package corelog

import (
	"os"

	"github.com/rs/zerolog"
)

// LevelEnvVar is the environment variable consulted at init to set the log
// level (RESOLVECORE_LOG_LEVEL=debug|info|warn|error) for callers that
// don't go through the CLI's --debug flag.
const LevelEnvVar = "RESOLVECORE_LOG_LEVEL"

// Logger is the package-wide, once-configured logger the resolver, state
// manager, value-network loader and CLI log through.
var Logger = newLogger()

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if lv, err := zerolog.ParseLevel(os.Getenv(LevelEnvVar)); err == nil {
		level = lv
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Component returns a child logger tagged with a "component" field, one
// per subsystem.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// SetLevel overrides the package logger's level; used by cmd/resolve's
// --debug flag.
func SetLevel(level zerolog.Level) {
	Logger = Logger.Level(level)
}
