package coordinator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rubiojr/prixcarburant/internal/carburant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	updates atomic.Int32
	err     error
}

func (f *fakeSource) UpdatePrices(ctx context.Context) error {
	f.updates.Add(1)
	return f.err
}

func (f *fakeSource) Stations() map[int64]*carburant.Station {
	return map[int64]*carburant.Station{101: {ID: 101}}
}

func (f *fakeSource) Len() int { return 1 }

func TestRefreshBeforeInitialize(t *testing.T) {
	src := &fakeSource{}
	failing := true
	c := New(src, func(context.Context) error {
		if failing {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	}, time.Hour, nil)

	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorContains(t, err, "connection refused")
	assert.False(t, c.Status().Initialized)

	failing = false
	require.NoError(t, c.Refresh(context.Background()))
	assert.True(t, c.Status().Initialized)
	assert.Equal(t, int32(1), src.updates.Load())
}

func TestInitializeAndRefresh(t *testing.T) {
	src := &fakeSource{}
	inits := 0
	c := New(src, func(context.Context) error { inits++; return nil }, time.Hour, nil)

	var got map[int64]*carburant.Station
	c.OnRefresh(func(_ context.Context, stations map[int64]*carburant.Station) error {
		got = stations
		return errors.New("listener errors are only logged")
	})

	require.NoError(t, c.Initialize(context.Background()))
	assert.Equal(t, 1, inits)
	assert.Equal(t, int32(1), src.updates.Load())
	assert.Contains(t, got, int64(101))

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, int32(2), src.updates.Load())

	status := c.Status()
	assert.True(t, status.Initialized)
	assert.Equal(t, 1, status.Stations)
	assert.False(t, status.LastSuccess.IsZero())
	assert.Empty(t, status.LastError)
}

func TestRefreshError(t *testing.T) {
	src := &fakeSource{}
	c := New(src, func(context.Context) error { return nil }, time.Hour, nil)
	require.NoError(t, c.Initialize(context.Background()))
	success := c.Status().LastSuccess

	src.err = errors.New("api down")
	err := c.Refresh(context.Background())
	require.ErrorContains(t, err, "api down")

	status := c.Status()
	assert.Equal(t, "api down", status.LastError)
	assert.Equal(t, success, status.LastSuccess)
}

func TestInitializeError(t *testing.T) {
	src := &fakeSource{}
	c := New(src, func(context.Context) error { return errors.New("boom") }, time.Hour, nil)

	require.Error(t, c.Initialize(context.Background()))
	assert.Zero(t, src.updates.Load())
	assert.False(t, c.Status().Initialized)
	assert.ErrorIs(t, c.Refresh(context.Background()), ErrNotInitialized)
}

func TestRefreshesAreSerialized(t *testing.T) {
	var running, maxRunning atomic.Int32
	src := &blockingSource{running: &running, max: &maxRunning}
	c := New(src, func(context.Context) error { return nil }, time.Hour, nil)
	require.NoError(t, c.Initialize(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Refresh(context.Background()))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxRunning.Load())
}

type blockingSource struct {
	fakeSource
	running *atomic.Int32
	max     *atomic.Int32
}

func (b *blockingSource) UpdatePrices(ctx context.Context) error {
	n := b.running.Add(1)
	defer b.running.Add(-1)
	for {
		m := b.max.Load()
		if n <= m || b.max.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return nil
}

func TestRunRetriesInitialization(t *testing.T) {
	src := &fakeSource{}
	var inits atomic.Int32
	c := New(src, func(context.Context) error {
		if inits.Add(1) == 1 {
			return errors.New("temporary failure in name resolution")
		}
		return nil
	}, time.Hour, nil)
	c.retryDelay = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	require.Eventually(t, func() bool { return c.Status().Initialized }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), inits.Load())
	assert.Equal(t, int32(1), src.updates.Load())
}

func TestRun(t *testing.T) {
	src := &fakeSource{}
	c := New(src, func(context.Context) error { return nil }, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return src.updates.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
