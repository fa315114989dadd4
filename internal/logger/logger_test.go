package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("production", "", &buf)

	l.Debug().Msg("hidden")
	l.Info().Str("component", "automation").Msg("run finished")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"automation"`)
	assert.Contains(t, out, `"message":"run finished"`)
}

func TestNew_DevelopmentUsesConsole(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("Development", "", &buf)

	l.Debug().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARN", zerolog.InfoLevel))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("", zerolog.InfoLevel))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("loud", zerolog.DebugLevel))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		l := Nop()
		l.Info().Msg("dropped")
	})
}
