package core

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

type EventType string

const (
	EventTypeMeeting  EventType = "meeting"
	EventTypePersonal EventType = "personal"
	EventTypeWork     EventType = "work"
	EventTypeReminder EventType = "reminder"
	EventTypeSchedule EventType = "schedule"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeMeeting, EventTypePersonal, EventTypeWork, EventTypeReminder, EventTypeSchedule:
		return true
	default:
		return false
	}
}

// Event is the persisted record. JSON keys match the stored blob format.
type Event struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Type        EventType `json:"type"`
	Description string    `json:"description,omitempty"`
}

type NewEvent struct {
	Title       string    `json:"title" binding:"required"`
	Date        string    `json:"date" binding:"required"`
	StartTime   string    `json:"startTime" binding:"required"`
	EndTime     string    `json:"endTime" binding:"required"`
	Type        EventType `json:"type" binding:"required"`
	Description string    `json:"description,omitempty"`
}

func (n NewEvent) WithId(id string) Event {
	return Event{
		Id:          id,
		Title:       n.Title,
		Date:        n.Date,
		StartTime:   n.StartTime,
		EndTime:     n.EndTime,
		Type:        n.Type,
		Description: n.Description,
	}
}

// Canonical returns event with its date as YYYY-MM-DD and its times as HH:MM,
// the forms written to storage.
func (e Event) Canonical() Event {
	e.Date = NormalizeDate(e.Date)
	e.StartTime = NormalizeClock(e.StartTime)
	e.EndTime = NormalizeClock(e.EndTime)

	return e
}

// EventPatch is a partial update. Nil fields are left untouched.
type EventPatch struct {
	Title       *string    `json:"title,omitempty"`
	Date        *string    `json:"date,omitempty"`
	StartTime   *string    `json:"startTime,omitempty"`
	EndTime     *string    `json:"endTime,omitempty"`
	Type        *EventType `json:"type,omitempty"`
	Description *string    `json:"description,omitempty"`
}

func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Date == nil && p.StartTime == nil &&
		p.EndTime == nil && p.Type == nil && p.Description == nil
}

// Apply returns a copy of event with the non-nil patch fields merged over it.
func (p EventPatch) Apply(event Event) Event {
	if p.Title != nil {
		event.Title = *p.Title
	}

	if p.Date != nil {
		event.Date = *p.Date
	}

	if p.StartTime != nil {
		event.StartTime = *p.StartTime
	}

	if p.EndTime != nil {
		event.EndTime = *p.EndTime
	}

	if p.Type != nil {
		event.Type = *p.Type
	}

	if p.Description != nil {
		event.Description = *p.Description
	}

	return event
}
