package help

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is a console-writer zerolog.Logger at Info level, tagged for
// test output the way the teacher's tests/help.Logger tags its slog
// default logger with service/env fields.
func Logger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(zerolog.InfoLevel).
		With().
		Str("service", "lineage-cache").
		Str("env", "test").
		Timestamp().
		Logger()
}
