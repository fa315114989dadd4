package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns the application logger. Development environments get a
// console writer at debug level; everything else logs JSON at level (info
// when level is empty or unknown).
func New(appEnv, level string) zerolog.Logger {
	return newWithWriter(appEnv, level, os.Stdout)
}

func newWithWriter(appEnv, level string, out io.Writer) zerolog.Logger {
	env := strings.ToLower(strings.TrimSpace(appEnv))
	if env == "development" || env == "dev" {
		cw := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = out
			w.TimeFormat = time.Kitchen
		})
		return zerolog.New(cw).Level(parseLevel(level, zerolog.DebugLevel)).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(parseLevel(level, zerolog.InfoLevel)).With().Timestamp().Logger()
}

func parseLevel(level string, fallback zerolog.Level) zerolog.Level {
	if strings.TrimSpace(level) == "" {
		return fallback
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fallback
	}
	return lvl
}

// Nop returns a disabled logger, useful for tests.
func Nop() zerolog.Logger {
	return zerolog.New(io.Discard)
}
