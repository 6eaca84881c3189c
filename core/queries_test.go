package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Id
	}

	return out
}

func dated(id string, date string, start string) Event {
	return Event{Id: id, Title: id, Date: date, StartTime: start, EndTime: "23:59", Type: EventTypePersonal}
}

func TestEventsOnDate(t *testing.T) {
	t.Parallel()

	events := []Event{
		dated("jan31", "2024-01-31", "10:00"),
		dated("feb1", "2024-02-01", "09:00"),
		dated("feb1-short", "2024-2-1", "11:00"),
	}

	tests := []struct {
		name string
		date time.Time
		want []string
	}{
		{name: "last day of month", date: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), want: []string{"jan31"}},
		{name: "first day of next month", date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), want: []string{"feb1", "feb1-short"}},
		{
			name: "late evening west of utc stays on its own day",
			date: time.Date(2024, 1, 31, 23, 30, 0, 0, time.FixedZone("PST", -8*3600)),
			want: []string{"jan31"},
		},
		{
			name: "early morning east of utc stays on its own day",
			date: time.Date(2024, 2, 1, 0, 30, 0, 0, time.FixedZone("CEST", 2*3600)),
			want: []string{"feb1", "feb1-short"},
		},
		{name: "empty day", date: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ids(EventsOnDate(events, tt.date)))
		})
	}
}

func TestEventsInHour(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)

	events := []Event{
		dated("nine", "2024-06-17", "09:00"),
		dated("nine-45", "2024-06-17", "09:45"),
		dated("ten", "2024-06-17", "10:00"),
		dated("other-day", "2024-06-18", "09:10"),
		dated("broken", "2024-06-17", "nine"),
	}

	assert.Equal(t, []string{"nine", "nine-45"}, ids(EventsInHour(events, date, 9)))
	assert.Equal(t, []string{"ten"}, ids(EventsInHour(events, date, 10)))
	assert.Empty(t, EventsInHour(events, date, 0))
}

func TestUpcoming(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("filters past events and orders by date then start", func(t *testing.T) {
		t.Parallel()

		events := []Event{
			dated("past", "2024-06-14", "09:00"),
			dated("later", "2024-06-16", "08:00"),
			dated("today", "2024-06-15", "10:00"),
		}

		assert.Equal(t, []string{"today", "later"}, ids(Upcoming(events, today, 5)))
	})

	t.Run("same day ordered by start time", func(t *testing.T) {
		t.Parallel()

		events := []Event{
			dated("noon", "2024-06-20", "12:00"),
			dated("nine", "2024-06-20", "9:00"),
			dated("ten", "2024-06-20", "10:00"),
		}

		assert.Equal(t, []string{"nine", "ten", "noon"}, ids(Upcoming(events, today, 5)))
	})

	t.Run("skips events whose date does not parse", func(t *testing.T) {
		t.Parallel()

		events := []Event{
			dated("garbage", "garbage", "09:00"),
			dated("empty", "", "09:00"),
			dated("ok", "2024-06-16", "09:00"),
		}

		assert.Equal(t, []string{"ok"}, ids(Upcoming(events, today, 5)))
	})

	t.Run("truncates to limit", func(t *testing.T) {
		t.Parallel()

		events := []Event{
			dated("a", "2024-06-16", "08:00"),
			dated("b", "2024-06-17", "08:00"),
			dated("c", "2024-06-18", "08:00"),
		}

		assert.Equal(t, []string{"a", "b"}, ids(Upcoming(events, today, 2)))
	})

	t.Run("non-positive limit uses the default", func(t *testing.T) {
		t.Parallel()

		var events []Event
		for day := 16; day < 26; day++ {
			events = append(events, dated("e", time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC).Format(DateLayout), "08:00"))
		}

		assert.Len(t, Upcoming(events, today, 0), DefaultUpcomingLimit)
	})
}

func TestReassignDate(t *testing.T) {
	t.Parallel()

	event := dated("a", "2024-06-17", "09:00")

	_, changed := ReassignDate(event, time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC))
	assert.False(t, changed)

	patch, changed := ReassignDate(event, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC))
	require.True(t, changed)
	require.NotNil(t, patch.Date)
	assert.Equal(t, "2024-06-21", *patch.Date)
	assert.Nil(t, patch.Title)
	assert.Nil(t, patch.StartTime)
	assert.Nil(t, patch.EndTime)
}

func TestDecodeDropPayload(t *testing.T) {
	t.Parallel()

	event, err := DecodeDropPayload([]byte(`{"id":"7","title":"Gym","date":"2024-06-17","startTime":"07:00","endTime":"08:00","type":"personal"}`))
	require.NoError(t, err)
	assert.Equal(t, "7", event.Id)
	assert.Equal(t, EventTypePersonal, event.Type)

	_, err = DecodeDropPayload([]byte(`{"title":"no id"}`))
	require.Error(t, err)

	_, err = DecodeDropPayload([]byte(`<div>`))
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"2024-06-05", "2024-6-5", " 2024-06-05 ", "2024-06-05T23:00:00+02:00"} {
		got, err := ParseDate(value)
		require.NoError(t, err, value)
		assert.Equal(t, "2024-06-05", FormatDate(got), value)
	}

	_, err := ParseDate("05/06/2024")
	require.ErrorIs(t, err, ErrInvalidDate)

	assert.Equal(t, "2024-02-01", NormalizeDate("2024-2-1"))
	assert.Equal(t, "garbage", NormalizeDate(" garbage "))
}

func TestNormalizeClock(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "09:05", NormalizeClock("9:05"))
	assert.Equal(t, "23:59", NormalizeClock(" 23:59 "))
	assert.Equal(t, "noon", NormalizeClock(" noon "))
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	got, err := ParseClock("9:30")
	require.NoError(t, err)
	assert.Equal(t, 570, got)

	got, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, got)

	_, err = ParseClock("24:00")
	require.ErrorIs(t, err, ErrInvalidTime)
}
