package core

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

var _ cron.Job = (*ICSSnapshot)(nil)

// ICSSnapshot writes the current iCalendar feed to target, so other calendar
// apps can subscribe to a plain file. Scheduled as a cron job.
type ICSSnapshot struct {
	store  *EventStore
	target Persistence
	now    func() time.Time
}

func NewICSSnapshot(store *EventStore, target Persistence) *ICSSnapshot {
	return &ICSSnapshot{store: store, target: target, now: time.Now}
}

func (s *ICSSnapshot) Write(ctx context.Context) error {
	events := s.store.Events()

	err := s.target.Save(ctx, []byte(ExportICS(events, icsProductId, s.now())))
	if err != nil {
		return fmt.Errorf("failed to write ics snapshot: %w", err)
	}

	log.Ctx(ctx).Debug().Str("component", "ics-snapshot").Int("events", len(events)).Msg("ics snapshot written")

	return nil
}

func (s *ICSSnapshot) Run() {
	ctx := log.Logger.WithContext(context.Background())

	err := s.Write(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ics-snapshot").Msg("scheduled ics snapshot failed")
	}
}
