package core

import (
	"fmt"
	"strings"
	"time"
)

type ViewKind string

const (
	ViewDay   ViewKind = "day"
	ViewWeek  ViewKind = "week"
	ViewMonth ViewKind = "month"
)

func ParseViewKind(value string) (ViewKind, error) {
	switch kind := ViewKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case ViewDay, ViewWeek, ViewMonth:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidView, value)
	}
}

// ParseWeekStart accepts "sunday" or "monday"; anything else means Sunday.
func ParseWeekStart(value string) time.Weekday {
	if strings.EqualFold(strings.TrimSpace(value), "monday") {
		return time.Monday
	}

	return time.Sunday
}

// Projection is the ordered set of dates a view renders. LeadingBlanks is only
// set for month views: the number of empty grid cells before the 1st.
type Projection struct {
	View          ViewKind    `json:"view"`
	Anchor        time.Time   `json:"anchor"`
	Dates         []time.Time `json:"dates"`
	LeadingBlanks int         `json:"leadingBlanks"`
}

type Projector struct {
	weekStart time.Weekday
}

func NewProjector(weekStart time.Weekday) *Projector {
	return &Projector{weekStart: weekStart}
}

func (p *Projector) WeekStart() time.Weekday {
	return p.weekStart
}

func (p *Projector) Project(view ViewKind, anchor time.Time) (Projection, error) {
	anchor = DateOf(anchor)

	projection := Projection{View: view, Anchor: anchor}

	switch view {
	case ViewDay:
		projection.Dates = []time.Time{anchor}
	case ViewWeek:
		start := p.StartOfWeek(anchor)
		projection.Dates = consecutiveDates(start, 7)
	case ViewMonth:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		projection.Dates = consecutiveDates(first, daysIn(anchor.Year(), anchor.Month()))
		projection.LeadingBlanks = p.weekdayIndex(first)
	default:
		return Projection{}, fmt.Errorf("%w: %q", ErrInvalidView, view)
	}

	return projection, nil
}

func (p *Projector) StartOfWeek(date time.Time) time.Time {
	date = DateOf(date)
	return date.AddDate(0, 0, -p.weekdayIndex(date))
}

// weekdayIndex is the column of date in a week that begins on weekStart.
func (p *Projector) weekdayIndex(date time.Time) int {
	return (int(date.Weekday()) - int(p.weekStart) + 7) % 7
}

// Shift moves anchor by steps units of view. Month shifts keep the day of
// month when possible and otherwise clamp to the last day of the target month,
// so Jan 31 + 1 month is Feb 28 (or 29).
func Shift(view ViewKind, anchor time.Time, steps int) (time.Time, error) {
	anchor = DateOf(anchor)

	switch view {
	case ViewDay:
		return anchor.AddDate(0, 0, steps), nil
	case ViewWeek:
		return anchor.AddDate(0, 0, 7*steps), nil
	case ViewMonth:
		return AddMonths(anchor, steps), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidView, view)
	}
}

func AddMonths(date time.Time, months int) time.Time {
	first := time.Date(date.Year(), date.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)

	day := min(date.Day(), daysIn(first.Year(), first.Month()))

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func consecutiveDates(start time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range n {
		dates[i] = start.AddDate(0, 0, i)
	}

	return dates
}

// Navigator keeps the current view and anchor date of a calendar session.
type Navigator struct {
	view   ViewKind
	anchor time.Time
	now    func() time.Time
}

func NewNavigator(view ViewKind, now func() time.Time) *Navigator {
	if now == nil {
		now = time.Now
	}

	return &Navigator{view: view, anchor: DateOf(now()), now: now}
}

func (n *Navigator) View() ViewKind {
	return n.view
}

func (n *Navigator) Anchor() time.Time {
	return n.anchor
}

func (n *Navigator) SetView(view ViewKind) {
	n.view = view
}

func (n *Navigator) SetAnchor(anchor time.Time) {
	n.anchor = DateOf(anchor)
}

func (n *Navigator) Previous() error {
	return n.shift(-1)
}

func (n *Navigator) Next() error {
	return n.shift(1)
}

func (n *Navigator) Today() {
	n.anchor = DateOf(n.now())
}

func (n *Navigator) shift(steps int) error {
	anchor, err := Shift(n.view, n.anchor, steps)
	if err != nil {
		return err
	}

	n.anchor = anchor

	return nil
}
