package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/TsubasaBE/go-timesheet/internal/logging"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("sheet", "Week01").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"sheet":"Week01"`)
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Format: "console", NoColor: true}, &buf)
	log.Info().Msg("parsing workbook")

	assert.Contains(t, buf.String(), "INF parsing workbook")
}

func TestAutoFormatIsJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Format: "auto"}, &buf)
	log.Info().Msg("x")
	assert.Contains(t, buf.String(), `"message":"x"`)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
		"trace":   zerolog.TraceLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(in), in)
	}
	assert.True(t, logging.ValidLevel("Error"))
	assert.False(t, logging.ValidLevel("loud"))
}

func TestContext(t *testing.T) {
	assert.Equal(t, &logging.Nop, logging.FromContext(context.Background()))

	var buf bytes.Buffer
	log := logging.New(logging.Config{Format: "json"}, &buf)
	ctx := logging.WithLogger(context.Background(), &log)
	logging.FromContext(ctx).Info().Msg("carried")
	assert.Contains(t, buf.String(), "carried")
}
