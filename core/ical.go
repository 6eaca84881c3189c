package core

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

const icsLocalLayout = "20060102T150405"

// ExportICS renders events as an iCalendar feed. Times are written as floating
// local times (no TZID) because events carry no zone.
func ExportICS(events []Event, productID string, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, event := range events {
		start, end, ok := eventBounds(event)
		if !ok {
			continue
		}

		vevent := cal.AddEvent(event.Id)
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(event.Title)
		vevent.SetProperty(ical.ComponentPropertyDtStart, start.Format(icsLocalLayout))
		vevent.SetProperty(ical.ComponentPropertyDtEnd, end.Format(icsLocalLayout))
		vevent.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(event.Type)))

		if event.Description != "" {
			vevent.SetDescription(event.Description)
		}
	}

	return cal.Serialize()
}

func eventBounds(event Event) (time.Time, time.Time, bool) {
	date, err := ParseDate(event.Date)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	start, err := ParseClock(event.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	end, err := ParseClock(event.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	return date.Add(time.Duration(start) * time.Minute), date.Add(time.Duration(end) * time.Minute), true
}
