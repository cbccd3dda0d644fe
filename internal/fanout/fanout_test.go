package fanout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAll_EmptyInputSucceedsImmediately(t *testing.T) {
	t.Parallel()

	called := false
	err := RunAll(context.Background(), nil, func(context.Context, string) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestRunAll_AllItemsSucceed(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seen := map[string]bool{}

	err := RunAll(context.Background(), []string{"de.po", "fr.po", "es.po"}, func(_ context.Context, item string) error {
		mu.Lock()
		defer mu.Unlock()
		seen[item] = true
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"de.po": true, "fr.po": true, "es.po": true}, seen)
}

func TestRunAll_FailureDoesNotStopSiblings(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	boom := errors.New("boom")
	var attempted atomic.Int32

	// --- Act ---
	err := RunAll(context.Background(), []string{"a", "b", "c"}, func(_ context.Context, item string) error {
		attempted.Add(1)
		if item == "b" {
			return boom
		}
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	// --- Assert ---
	require.Error(t, err)
	assert.Equal(t, int32(3), attempted.Load())
	assert.ErrorIs(t, err, boom)

	var joinErr *JoinError
	require.True(t, errors.As(err, &joinErr))
	assert.Equal(t, 3, joinErr.Total)
	require.Len(t, joinErr.Failures, 1)
	assert.Equal(t, "b", joinErr.Failures[0].Item)
	assert.Equal(t, "b: boom", err.Error())
}

func TestRunAll_MultipleFailuresKeepInputOrder(t *testing.T) {
	t.Parallel()

	err := RunAll(context.Background(), []string{"x", "y", "z"}, func(_ context.Context, item string) error {
		if item == "y" {
			return nil
		}
		return errors.New("bad " + item)
	})

	var joinErr *JoinError
	require.True(t, errors.As(err, &joinErr))
	require.Len(t, joinErr.Failures, 2)
	assert.Equal(t, "x", joinErr.Failures[0].Item)
	assert.Equal(t, "z", joinErr.Failures[1].Item)
	assert.Equal(t, "2 of 3 items failed; x: bad x; z: bad z", err.Error())
}

func TestRunAll_RecoversPanics(t *testing.T) {
	t.Parallel()

	err := RunAll(context.Background(), []string{"only"}, func(context.Context, string) error {
		panic("kaboom")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: kaboom")
}

func TestRunAll_WithLimitBoundsConcurrency(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var inFlight, peak atomic.Int32
	items := []string{"1", "2", "3", "4", "5", "6"}

	// --- Act ---
	err := RunAll(context.Background(), items, func(context.Context, string) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}, WithLimit(2))

	// --- Assert ---
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunAll_StartsEveryItemWithoutWaiting(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Each item blocks until all of them are in flight, so running them one
	// after another never finishes.
	items := []string{"de.po", "fr.po", "es.po", "it.po"}
	var barrier sync.WaitGroup
	barrier.Add(len(items))

	// --- Act ---
	done := make(chan error, 1)
	go func() {
		done <- RunAll(context.Background(), items, func(context.Context, string) error {
			barrier.Done()
			barrier.Wait()
			return nil
		})
	}()

	// --- Assert ---
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("items did not run concurrently")
	}
}
