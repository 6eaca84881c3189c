package resources

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelog "go.opentelemetry.io/otel/log"
)

func TestEventFields(t *testing.T) {
	t.Parallel()

	var (
		fields map[string]any
		ok     bool
	)

	capture := zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
		fields, ok = eventFields(e)
	})

	logger := zerolog.New(io.Discard).Hook(capture)
	logger.Info().Str("component", "event-store").Int("events", 3).Msg("loaded")

	require.True(t, ok)
	assert.Equal(t, "event-store", fields["component"])
	assert.InDelta(t, 3, fields["events"], 0)
}

func TestToAttributes(t *testing.T) {
	t.Parallel()

	kvs := toAttributes(map[string]any{
		zerolog.LevelFieldName:   "info",
		zerolog.MessageFieldName: "hello",
		"component":              "sqlite",
		"events":                 float64(4),
		"ratio":                  0.5,
		"ok":                     true,
	})

	got := map[string]otelog.Value{}
	for _, kv := range kvs {
		got[kv.Key] = kv.Value
	}

	assert.Len(t, got, 4)
	assert.Equal(t, "sqlite", got["component"].AsString())
	assert.Equal(t, int64(4), got["events"].AsInt64())
	assert.InDelta(t, 0.5, got["ratio"].AsFloat64(), 0)
	assert.True(t, got["ok"].AsBool())
}

func TestSeverityOf(t *testing.T) {
	t.Parallel()

	sev, text := severityOf(zerolog.ErrorLevel)
	assert.Equal(t, otelog.SeverityError, sev)
	assert.Equal(t, "ERROR", text)

	sev, text = severityOf(zerolog.NoLevel)
	assert.Equal(t, otelog.SeverityInfo, sev)
	assert.Equal(t, "INFO", text)
}

func TestTimestampOf(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

	assert.True(t, ts.Equal(timestampOf(map[string]any{zerolog.TimestampFieldName: ts.Format(time.RFC3339Nano)})))
	assert.WithinDuration(t, time.Now(), timestampOf(map[string]any{}), time.Minute)
}

func TestOtelHook_Run(t *testing.T) {
	t.Parallel()

	logger := zerolog.New(io.Discard).Hook(NewOtelHook("event-calendar", "test"))

	assert.NotPanics(t, func() {
		logger.Warn().Str("component", "file").Msg("slow write")
	})
}
