package client_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/simbridge/internal/bridge"
	"github.com/cory-johannsen/simbridge/internal/bridge/client"
	"github.com/cory-johannsen/simbridge/internal/bridge/dispatch"
	"github.com/cory-johannsen/simbridge/internal/bridge/nav"
	"github.com/cory-johannsen/simbridge/internal/testutil"
)

// serve runs a bridge over the arena on its own goroutine until the test ends.
func serve(t *testing.T) *client.Client {
	t.Helper()
	input, output := testutil.BridgePaths(t)
	logger := zaptest.NewLogger(t)
	e := testutil.NewArena(t)
	cfg := nav.DefaultConfig()
	cfg.WaitStep = 0
	d, err := dispatch.New(e, dispatch.Options{Navigation: cfg, Logger: logger})
	require.NoError(t, err)

	c := bridge.New(d, bridge.Options{
		Enabled:    true,
		InputPipe:  input,
		OutputPath: output,
		Logger:     logger,
	})
	require.NoError(t, c.Init())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				c.Exit()
				return
			case <-ticker.C:
				e.Tick()
				c.ProcessBackground(ctx)
			}
		}
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})

	return &client.Client{InputPipe: input, OutputPath: output, Timeout: 5 * time.Second, Poll: 5 * time.Millisecond}
}

func TestSend_ReturnsResponse(t *testing.T) {
	cl := serve(t)

	resp, err := cl.Send(context.Background(), "  scan_exits ")
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "scan_exits", resp.Command)
	assert.Contains(t, resp.Body, "count=")
	assert.Equal(t, "[RESULT]\nstatus=ok\ncommand=scan_exits\n\n"+resp.Body+"\n", resp.Raw)
}

func TestSend_ErrorResponse(t *testing.T) {
	cl := serve(t)

	resp, err := cl.Send(context.Background(), "fly")
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "unknown_command", resp.Body)
}

func TestSend_SuccessiveCommands(t *testing.T) {
	cl := serve(t)

	for i, command := range []string{"state", "scan_exits", "help", "state"} {
		resp, err := cl.Send(context.Background(), command)
		require.NoError(t, err, "command %d", i)
		assert.True(t, resp.OK, "command %d", i)
		assert.Equal(t, command, resp.Command)
	}
}

func TestSend_RepeatedCommand(t *testing.T) {
	cl := serve(t)

	first, err := cl.Send(context.Background(), "help")
	require.NoError(t, err)
	// Outlast coarse file timestamps.
	time.Sleep(50 * time.Millisecond)
	second, err := cl.Send(context.Background(), "help")
	require.NoError(t, err)
	assert.Equal(t, first.Body, second.Body)
}

func TestSend_Empty(t *testing.T) {
	cl := client.New("/nonexistent/in", "/nonexistent/out")
	_, err := cl.Send(context.Background(), " \t ")
	assert.ErrorIs(t, err, client.ErrEmptyCommand)
}

func TestSend_NoPipeTimesOut(t *testing.T) {
	input, output := testutil.BridgePaths(t)
	cl := &client.Client{InputPipe: input, OutputPath: output, Timeout: 50 * time.Millisecond, Poll: 5 * time.Millisecond}

	_, err := cl.Send(context.Background(), "state")
	assert.ErrorIs(t, err, client.ErrTimeout)
}

func TestSend_NoResponseTimesOut(t *testing.T) {
	input, output := testutil.BridgePaths(t)
	logger := zaptest.NewLogger(t)
	d, err := dispatch.New(testutil.NewArena(t), dispatch.Options{Navigation: nav.DefaultConfig(), Logger: logger})
	require.NoError(t, err)
	c := bridge.New(d, bridge.Options{Enabled: true, InputPipe: input, OutputPath: output, Logger: logger})
	require.NoError(t, c.Init())
	t.Cleanup(c.Exit)

	cl := &client.Client{InputPipe: input, OutputPath: output, Timeout: 50 * time.Millisecond, Poll: 5 * time.Millisecond}
	_, err = cl.Send(context.Background(), "state")
	assert.ErrorIs(t, err, client.ErrTimeout)
}
