package servers

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type cronServer struct {
	name         string
	internal     *cron.Cron
	closeChannel chan struct{}
	closeOnce    sync.Once
}

func NewCronServer(name string, internal *cron.Cron) Server {
	return &cronServer{
		name:         name,
		internal:     internal,
		closeChannel: make(chan struct{}),
	}
}

func (server *cronServer) Run(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "startup").Str("component", server.name).Int("jobs", len(server.internal.Entries())).Msg("starting up")

	server.internal.Start()

	select {
	case <-server.closeChannel:
	case <-ctx.Done():
	}

	return nil
}

// Stop halts the scheduler and waits for running jobs until ctx expires.
func (server *cronServer) Stop(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopping")
	defer log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopped")

	server.closeOnce.Do(func() { close(server.closeChannel) })

	select {
	case <-server.internal.Stop().Done():
		return nil
	case <-ctx.Done():
		return ErrServerFailedToStop(server.name, ctx.Err())
	}
}
