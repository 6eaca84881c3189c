package core

import (
	"time"
)

type DayCell struct {
	Date         string         `json:"date"`
	IsToday      bool           `json:"isToday"`
	HasConflicts bool           `json:"hasConflicts"`
	Events       []FlaggedEvent `json:"events"`
}

type HourSlot struct {
	Hour   int     `json:"hour"`
	Events []Event `json:"events"`
}

// CalendarView is everything a day, week or month renderer needs for one
// anchor date.
type CalendarView struct {
	View          ViewKind   `json:"view"`
	Anchor        string     `json:"anchor"`
	Previous      string     `json:"previous"`
	Next          string     `json:"next"`
	Today         string     `json:"today"`
	WeekStart     string     `json:"weekStart"`
	LeadingBlanks int        `json:"leadingBlanks"`
	Days          []DayCell  `json:"days"`
	Hours         []HourSlot `json:"hours,omitempty"`
}

func BuildView(projector *Projector, view ViewKind, anchor time.Time, today time.Time, events []Event) (CalendarView, error) {
	projection, err := projector.Project(view, anchor)
	if err != nil {
		return CalendarView{}, err
	}

	navigator := NewNavigator(view, func() time.Time { return today })

	navigator.SetAnchor(anchor)

	err = navigator.Previous()
	if err != nil {
		return CalendarView{}, err
	}

	previous := navigator.Anchor()

	navigator.SetAnchor(anchor)

	err = navigator.Next()
	if err != nil {
		return CalendarView{}, err
	}

	next := navigator.Anchor()

	navigator.Today()

	result := CalendarView{
		View:          view,
		Anchor:        FormatDate(projection.Anchor),
		Previous:      FormatDate(previous),
		Next:          FormatDate(next),
		Today:         FormatDate(navigator.Anchor()),
		WeekStart:     projector.WeekStart().String(),
		LeadingBlanks: projection.LeadingBlanks,
		Days:          make([]DayCell, 0, len(projection.Dates)),
	}

	for _, date := range projection.Dates {
		conflicts := DetectConflicts(EventsOnDate(events, date))

		result.Days = append(result.Days, DayCell{
			Date:         FormatDate(date),
			IsToday:      date.Equal(DateOf(today)),
			HasConflicts: conflicts.HasConflicts,
			Events:       conflicts.Events,
		})
	}

	if view == ViewDay {
		result.Hours = make([]HourSlot, 24)
		for hour := range 24 {
			result.Hours[hour] = HourSlot{Hour: hour, Events: EventsInHour(events, projection.Anchor, hour)}
		}
	}

	return result, nil
}
