package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const watchTarget = "/data/dump.html"

func startWatchLoop(ctx context.Context, events chan fsnotify.Event, errs chan error) (<-chan struct{}, <-chan error) {
	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, events, errs, watchTarget, 50*time.Millisecond, func() {
			calls <- struct{}{}
		})
	}()
	return calls, done
}

func TestWatchCmd_RequiresTwoArgs(t *testing.T) {
	rootCmd.SetArgs([]string{"watch", "dump.html"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestWatchLoop_DebouncesWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan fsnotify.Event)
	errs := make(chan error)

	calls, done := startWatchLoop(ctx, events, errs)

	for i := 0; i < 3; i++ {
		events <- fsnotify.Event{Name: watchTarget, Op: fsnotify.Write}
	}

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange was not called")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Empty(t, calls)
}

func TestWatchLoop_CreateTriggers(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan fsnotify.Event)

	calls, done := startWatchLoop(ctx, events, make(chan error))

	events <- fsnotify.Event{Name: watchTarget, Op: fsnotify.Create}

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange was not called")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatchLoop_IgnoresUnrelatedEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := make(chan fsnotify.Event)
	errs := make(chan error)

	calls, done := startWatchLoop(context.Background(), events, errs)

	events <- fsnotify.Event{Name: "/data/other.html", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: watchTarget, Op: fsnotify.Chmod}
	events <- fsnotify.Event{Name: watchTarget, Op: fsnotify.Remove}
	errs <- errors.New("queue overflow")
	close(events)

	require.NoError(t, <-done)
	assert.Empty(t, calls)
}

func TestWatchLoop_StopsWhenErrorsClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	errs := make(chan error)

	_, done := startWatchLoop(context.Background(), make(chan fsnotify.Event), errs)
	close(errs)

	require.NoError(t, <-done)
}
