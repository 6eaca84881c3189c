package servers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"event-calendar/pkg/resources"
)

// Manage runs server.Run in its own goroutine. A Run error is forwarded to
// errChan; the returned StopFn stops the server within the given timeout.
func Manage(ctx context.Context, name string, server Server, errChan chan<- error) (resources.StopFn, error) {
	if server == nil {
		return func(context.Context, time.Duration) {}, ErrServerFailedToStart(name, ErrNilServer)
	}

	go func() {
		err := server.Run(ctx)
		if err != nil {
			errChan <- err
		}
	}()

	return func(ctx context.Context, timeout time.Duration) {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		err := server.Stop(stopCtx)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("stage", "shut down").Str("component", name).Msg("unable to stop server")
		}
	}, nil
}
