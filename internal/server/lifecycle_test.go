package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockService struct {
	started atomic.Bool
	stopped atomic.Bool
	startFn func() error
}

func (m *mockService) Start() error {
	m.started.Store(true)
	if m.startFn != nil {
		return m.startFn()
	}
	for !m.stopped.Load() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (m *mockService) Stop() {
	m.stopped.Store(true)
}

func TestLifecycleStartsAndStopsServices(t *testing.T) {
	logger := zaptest.NewLogger(t)
	lc := NewLifecycle(logger)

	svc1 := &mockService{}
	svc2 := &mockService{}

	lc.Add("svc1", svc1)
	lc.Add("svc2", svc2)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- lc.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if svc1.started.Load() && svc2.started.Load() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("services did not start in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	assert.True(t, svc1.started.Load())
	assert.True(t, svc2.started.Load())

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}

	assert.True(t, svc1.stopped.Load())
	assert.True(t, svc2.stopped.Load())
}

func TestFuncService(t *testing.T) {
	started := false
	stopped := false

	svc := &FuncService{
		StartFn: func() error {
			started = true
			return nil
		},
		StopFn: func() {
			stopped = true
		},
	}

	err := svc.Start()
	assert.NoError(t, err)
	assert.True(t, started)

	svc.Stop()
	assert.True(t, stopped)
}

func TestLifecycle_ServiceErrorEndsRun(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	boom := errors.New("listen failed")
	steady := &mockService{}
	lc.Add("steady", steady)
	lc.Add("metrics", &mockService{startFn: func() error { return boom }})

	err := runWithTimeout(t, lc, context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "service metrics")
	assert.True(t, steady.stopped.Load())
}

func TestLifecycle_FinishedServiceEndsRun(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	steady := &mockService{}
	lc.Add("steady", steady)
	lc.Add("oneshot", &mockService{startFn: func() error { return nil }})

	assert.NoError(t, runWithTimeout(t, lc, context.Background()))
	assert.True(t, steady.stopped.Load())
}

func TestLifecycle_CancelCauseIsReturned(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	lc.Add("steady", &mockService{})

	cause := errors.New("simulation crashed")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(cause)

	assert.ErrorIs(t, runWithTimeout(t, lc, ctx), cause)
}

func TestLifecycle_StopsInReverseOrder(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	var order []string
	stopped := make(chan string, 2)
	for _, name := range []string{"first", "second"} {
		release := make(chan struct{})
		lc.Add(name, &FuncService{
			StartFn: func() error { <-release; return nil },
			StopFn: func() {
				stopped <- name
				close(release)
			},
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, runWithTimeout(t, lc, ctx))
	close(stopped)
	for name := range stopped {
		order = append(order, name)
	}
	assert.Equal(t, []string{"second", "first"}, order)
}

func runWithTimeout(t *testing.T, lc *Lifecycle, ctx context.Context) error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- lc.Run(ctx)
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
		return nil
	}
}
