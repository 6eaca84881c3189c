package core

import (
	"slices"
)

type FlaggedEvent struct {
	Event
	Conflict bool `json:"conflict"`
}

type DayConflicts struct {
	HasConflicts bool           `json:"hasConflicts"`
	Events       []FlaggedEvent `json:"events"`
}

// DetectConflicts sorts the events of one day by start time and compares each
// event with its immediate predecessor only. An event nested inside a
// non-adjacent earlier event is not flagged.
func DetectConflicts(events []Event) DayConflicts {
	sorted := SortByStartTime(events)

	result := DayConflicts{Events: make([]FlaggedEvent, len(sorted))}

	for i, event := range sorted {
		result.Events[i].Event = event

		if i == 0 {
			continue
		}

		if clockMinutes(event.StartTime) < clockMinutes(sorted[i-1].EndTime) {
			result.Events[i].Conflict = true
			result.HasConflicts = true
		}
	}

	return result
}

// SortByStartTime returns a stably sorted copy; ties keep their order.
func SortByStartTime(events []Event) []Event {
	sorted := slices.Clone(events)

	slices.SortStableFunc(sorted, func(a, b Event) int {
		return clockMinutes(a.StartTime) - clockMinutes(b.StartTime)
	})

	return sorted
}
