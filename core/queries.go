package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

const DefaultUpcomingLimit = 5

// EventsOnDate keeps collection order and compares normalized YYYY-MM-DD
// strings, so no clock or zone can push an event onto a neighbouring day.
func EventsOnDate(events []Event, date time.Time) []Event {
	day := FormatDate(date)

	result := make([]Event, 0)
	for _, event := range events {
		if NormalizeDate(event.Date) == day {
			result = append(result, event)
		}
	}

	return result
}

func EventsInHour(events []Event, date time.Time, hour int) []Event {
	result := make([]Event, 0)
	for _, event := range EventsOnDate(events, date) {
		start, err := ParseClock(event.StartTime)
		if err != nil {
			continue
		}

		if start/60 == hour {
			result = append(result, event)
		}
	}

	return result
}

// Upcoming returns events dated today or later ordered by date then start
// time, at most limit of them.
func Upcoming(events []Event, today time.Time, limit int) []Event {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	from := FormatDate(today)

	result := make([]Event, 0)
	for _, event := range events {
		date, err := ParseDate(event.Date)
		if err != nil {
			continue
		}

		if FormatDate(date) >= from {
			result = append(result, event)
		}
	}

	slices.SortStableFunc(result, func(a, b Event) int {
		c := strings.Compare(NormalizeDate(a.Date), NormalizeDate(b.Date))
		if c != 0 {
			return c
		}

		return clockMinutes(a.StartTime) - clockMinutes(b.StartTime)
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result
}

// ReassignDate builds the patch for moving event to newDate. It reports false
// when the event already sits on that date.
func ReassignDate(event Event, newDate time.Time) (EventPatch, bool) {
	date := FormatDate(newDate)
	if NormalizeDate(event.Date) == date {
		return EventPatch{}, false
	}

	return EventPatch{Date: &date}, true
}

func DecodeDropPayload(payload []byte) (Event, error) {
	var event Event

	err := json.Unmarshal(payload, &event)
	if err != nil {
		return Event{}, fmt.Errorf("failed to decode dropped event: %w", err)
	}

	if strings.TrimSpace(event.Id) == "" {
		return Event{}, errors.New("dropped event has no id")
	}

	return event, nil
}
