package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type StoreOption func(*EventStore)

func WithIdGenerator(fn func() string) StoreOption {
	return func(s *EventStore) {
		s.newId = fn
	}
}

func WithClock(fn func() time.Time) StoreOption {
	return func(s *EventStore) {
		s.now = fn
	}
}

// EventStore owns the canonical event collection. Every mutation is a
// read-modify-write of the whole collection followed by a full persist;
// the in-memory state only changes once the persist succeeded.
type EventStore struct {
	mu          sync.RWMutex
	persistence Persistence
	events      []Event
	newId       func() string
	now         func() time.Time
}

func NewEventStore(persistence Persistence, opts ...StoreOption) *EventStore {
	store := &EventStore{
		persistence: persistence,
		events:      []Event{},
		newId:       uuid.NewString,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Load replaces the in-memory collection with the persisted one. Missing or
// unreadable state falls back to the bundled defaults and is never fatal.
func (s *EventStore) Load(ctx context.Context) (Outcome, error) {
	defaults, err := DefaultEvents()
	if err != nil {
		return OutcomeDefaulted, err
	}

	blob, err := s.persistence.Load(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "event-store").Msg("failed to read persisted events, using defaults")
		s.replace(defaults)

		return OutcomeDefaulted, nil
	}

	if len(bytes.TrimSpace(blob)) == 0 {
		log.Ctx(ctx).Info().Str("component", "event-store").Int("events", len(defaults)).Msg("no persisted events, using defaults")
		s.replace(defaults)

		return OutcomeDefaulted, nil
	}

	var events []Event

	err = json.Unmarshal(blob, &events)
	if err == nil && events == nil {
		err = fmt.Errorf("persisted events blob is %q", string(bytes.TrimSpace(blob)))
	}

	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "event-store").Msg("failed to parse persisted events, using defaults")
		s.replace(defaults)

		return OutcomeParseFailed, nil
	}

	log.Ctx(ctx).Debug().Str("component", "event-store").Int("events", len(events)).Msg("events loaded")
	s.replace(events)

	return OutcomeOk, nil
}

func (s *EventStore) Add(ctx context.Context, newEvent NewEvent) (Event, error) {
	event := newEvent.WithId("").Canonical()

	err := ValidateEvent(event)
	if err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event.Id = s.newId()

	next := make([]Event, 0, len(s.events)+1)
	next = append(next, s.events...)
	next = append(next, event)

	err = s.persist(ctx, next)
	if err != nil {
		return Event{}, err
	}

	s.events = next

	log.Ctx(ctx).Info().Str("component", "event-store").Str("id", event.Id).Msg("event created")

	return event, nil
}

// Update merges patch over the stored event and returns the merged record as
// it was persisted.
func (s *EventStore) Update(ctx context.Context, id string, patch EventPatch) (Event, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		log.Ctx(ctx).Debug().Str("component", "event-store").Str("id", id).Msg("update on unknown event ignored")
		return Event{}, OutcomeNotFound, nil
	}

	merged := patch.Apply(s.events[idx]).Canonical()

	err := ValidateEvent(merged)
	if err != nil {
		return Event{}, OutcomeOk, err
	}

	next := slices.Clone(s.events)
	next[idx] = merged

	err = s.persist(ctx, next)
	if err != nil {
		return Event{}, OutcomeOk, err
	}

	s.events = next

	log.Ctx(ctx).Info().Str("component", "event-store").Str("id", id).Msg("event updated")

	return merged, OutcomeOk, nil
}

func (s *EventStore) Delete(ctx context.Context, id string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		log.Ctx(ctx).Debug().Str("component", "event-store").Str("id", id).Msg("delete on unknown event ignored")
		return OutcomeNotFound, nil
	}

	next := slices.Delete(slices.Clone(s.events), idx, idx+1)

	err := s.persist(ctx, next)
	if err != nil {
		return OutcomeOk, err
	}

	s.events = next

	log.Ctx(ctx).Info().Str("component", "event-store").Str("id", id).Msg("event deleted")

	return OutcomeOk, nil
}

// Drop applies a drag-and-drop of the event encoded in payload onto newDate.
// A malformed payload is logged and ignored; dropping onto the same date does
// not touch storage.
func (s *EventStore) Drop(ctx context.Context, payload []byte, newDate time.Time) (Event, Outcome, error) {
	event, err := DecodeDropPayload(payload)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "event-store").Msg("error parsing dropped event data")
		return Event{}, OutcomeParseFailed, nil
	}

	patch, changed := ReassignDate(event, newDate)
	if !changed {
		return Event{}, OutcomeUnchanged, nil
	}

	return s.Update(ctx, event.Id, patch)
}

func (s *EventStore) Get(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Event{}, false
	}

	return s.events[idx], true
}

// Events returns a copy of the collection in insertion order.
func (s *EventStore) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.events)
}

func (s *EventStore) Now() time.Time {
	return s.now()
}

func (s *EventStore) Today() time.Time {
	return DateOf(s.now())
}

func (s *EventStore) replace(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = events
}

func (s *EventStore) indexOf(id string) int {
	return slices.IndexFunc(s.events, func(e Event) bool { return e.Id == id })
}

func (s *EventStore) persist(ctx context.Context, events []Event) error {
	blob, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}

	err = s.persistence.Save(ctx, blob)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "event-store").Msg("failed to persist events")
		return fmt.Errorf("failed to persist events: %w", err)
	}

	return nil
}
