package shutdown_test

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classbook/pkg/shutdown"
)

func TestWaitExecutesHooksOnSignal(t *testing.T) {
	hook1Called := make(chan struct{})
	hook2Called := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		shutdown.Wait(context.Background(), time.Second,
			func(context.Context) error { close(hook1Called); return nil },
			func(context.Context) error { close(hook2Called); return errors.New("ignored") },
		)
	}()

	time.Sleep(100 * time.Millisecond)

	process, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, process.Signal(syscall.SIGTERM))

	for _, ch := range []chan struct{}{hook1Called, hook2Called, done} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("shutdown did not complete")
		}
	}
}

func TestWaitReturnsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	called := false
	done := make(chan struct{})
	go func() {
		defer close(done)
		shutdown.Wait(ctx, time.Second, func(hookCtx context.Context) error {
			called = true
			assert.NoError(t, hookCtx.Err(), "hook context must outlive the parent")
			return nil
		})
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after context cancel")
	}
	assert.True(t, called)
}

func TestWaitRespectsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	shutdown.Wait(ctx, 50*time.Millisecond, func(hookCtx context.Context) error {
		<-hookCtx.Done()
		time.Sleep(time.Second)
		return nil
	})

	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
