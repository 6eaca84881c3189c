package servers

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClosable struct {
	closed atomic.Int32
}

func (c *countingClosable) Close() {
	c.closed.Add(1)
}

func TestManage_NilServer(t *testing.T) {
	t.Parallel()

	stopFn, err := Manage(context.Background(), "nil-server", nil, make(chan error, 1))

	require.ErrorIs(t, err, ErrNilServer)
	assert.NotNil(t, stopFn)
}

func TestManage_BaseServer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	errChan := make(chan error, 1)
	closable := &countingClosable{}

	server := NewBaseServer("base-server", closable)

	stopFn, err := Manage(ctx, "base-server", server, errChan)
	require.NoError(t, err)

	stopFn(ctx, time.Second)
	stopFn(ctx, time.Second)

	assert.Equal(t, int32(1), closable.closed.Load())

	select {
	case runErr := <-errChan:
		t.Fatalf("unexpected run error: %v", runErr)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBaseServer_RunReturnsOnContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- NewBaseServer("base-server").Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestManage_HttpServer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	errChan := make(chan error, 1)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	internal := NewServer(ctx, "127.0.0.1", "0", handler)

	assert.Equal(t, "127.0.0.1:0", internal.Addr)

	stopFn, err := Manage(ctx, "rest-server", NewHttpServer("rest-server", internal), errChan)
	require.NoError(t, err)

	stopFn(ctx, time.Second)

	select {
	case runErr := <-errChan:
		t.Fatalf("unexpected run error: %v", runErr)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHttpServer_RunFailure(t *testing.T) {
	t.Parallel()

	server := NewHttpServer("broken", NewServer(context.Background(), "127.0.0.1", "not-a-port", http.NotFoundHandler()))

	err := server.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server broken failed to start")
}

func TestManage_CronServer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	errChan := make(chan error, 1)
	ran := make(chan struct{}, 1)

	scheduler := cron.New()

	_, err := scheduler.AddFunc("@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	stopFn, err := Manage(ctx, "cron-server", NewCronServer("cron-server", scheduler), errChan)
	require.NoError(t, err)

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled job never ran")
	}

	stopFn(ctx, time.Second)

	select {
	case runErr := <-errChan:
		t.Fatalf("unexpected run error: %v", runErr)
	case <-time.After(50 * time.Millisecond):
	}
}
