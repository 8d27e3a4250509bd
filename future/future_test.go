package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestFutureGet(t *testing.T) {
	t.Parallel()

	fut, promise := New[int]()

	require.False(t, fut.IsCompleted())

	go promise.Success(42)

	val, err := fut.Get()

	require.NoError(t, err)
	require.Equal(t, 42, val)
	require.True(t, fut.IsCompleted())
}

func TestFutureFailure(t *testing.T) {
	t.Parallel()

	fut, promise := New[string]()

	promise.Failure(errBoom)

	val, err := fut.Get()

	require.ErrorIs(t, err, errBoom)
	require.Empty(t, val)
}

func TestFutureFulfillOnce(t *testing.T) {
	t.Parallel()

	fut, promise := New[int]()

	promise.Success(1)
	promise.Success(2)
	promise.Failure(errBoom)

	val, err := fut.Get()

	require.NoError(t, err)
	require.Equal(t, 1, val)
}

func TestFutureWaitCancellation(t *testing.T) {
	t.Parallel()

	fut, _ := New[int]()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := fut.Wait(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFutureWaitSettled(t *testing.T) {
	t.Parallel()

	fut, promise := New[int]()

	promise.Success(7)

	val, err := fut.Wait(t.Context())

	require.NoError(t, err)
	require.Equal(t, 7, val)
}

func TestFutureManyWaiters(t *testing.T) {
	t.Parallel()

	fut, promise := New[int]()

	const waiters = 8

	var wg sync.WaitGroup

	results := make([]int, waiters)

	for i := range waiters {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], _ = fut.Get()
		}()
	}

	promise.Success(99)
	wg.Wait()

	for _, val := range results {
		require.Equal(t, 99, val)
	}
}

func TestFutureCallbacks(t *testing.T) {
	t.Parallel()

	fut, promise := New[int]()

	success := make(chan int, 1)
	complete := make(chan int, 1)

	fut.OnSuccess(func(v int) { success <- v })
	fut.OnComplete(func(v int, err error) {
		require.NoError(t, err)
		complete <- v
	})

	promise.Success(5)

	require.Equal(t, 5, <-success)
	require.Equal(t, 5, <-complete)
}

func TestFutureCallbackAfterSettlement(t *testing.T) {
	t.Parallel()

	fut, promise := New[int]()

	promise.Failure(errBoom)

	errCh := make(chan error, 1)

	fut.OnError(func(err error) { errCh <- err })

	require.ErrorIs(t, <-errCh, errBoom)
}

func TestGo(t *testing.T) {
	t.Parallel()

	fut := Go(func() (string, error) {
		return "done", nil
	})

	val, err := fut.Get()

	require.NoError(t, err)
	require.Equal(t, "done", val)
}

func TestGoPanicBecomesError(t *testing.T) {
	t.Parallel()

	fut := Go(func() (string, error) {
		panic("test panic")
	})

	_, err := fut.Get()

	require.Error(t, err)
	require.ErrorIs(t, err, ErrCallbackPanic)
	require.ErrorContains(t, err, "test panic")
}
