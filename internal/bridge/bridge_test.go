package bridge_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/simbridge/internal/bridge"
	"github.com/cory-johannsen/simbridge/internal/bridge/dispatch"
	"github.com/cory-johannsen/simbridge/internal/bridge/nav"
	"github.com/cory-johannsen/simbridge/internal/bridge/query"
	"github.com/cory-johannsen/simbridge/internal/bridge/transport"
	"github.com/cory-johannsen/simbridge/internal/game/engine"
	"github.com/cory-johannsen/simbridge/internal/observability"
	"github.com/cory-johannsen/simbridge/internal/testutil"
)

type fixture struct {
	engine     *engine.Engine
	controller *bridge.Controller
	input      string
	output     string
}

func newFixture(t *testing.T, opts bridge.Options) *fixture {
	t.Helper()
	e := testutil.NewArena(t)
	cfg := nav.DefaultConfig()
	cfg.WaitStep = 0
	logger := zaptest.NewLogger(t)
	d, err := dispatch.New(e, dispatch.Options{Navigation: cfg, Logger: logger})
	require.NoError(t, err)

	if opts.InputPipe == "" {
		opts.InputPipe, opts.OutputPath = testutil.BridgePaths(t)
	}
	opts.Logger = logger
	c := bridge.New(d, opts)
	t.Cleanup(c.Exit)
	return &fixture{engine: e, controller: c, input: opts.InputPipe, output: opts.OutputPath}
}

// connect runs Init and attaches a client.
func (f *fixture) connect(t *testing.T) *testutil.PipeClient {
	t.Helper()
	require.NoError(t, f.controller.Init())
	return testutil.NewPipeClient(t, f.input, f.output)
}

func TestInit_WritesReadyBanner(t *testing.T) {
	f := newFixture(t, bridge.Options{Enabled: true})
	require.NoError(t, f.controller.Init())

	data, err := os.ReadFile(f.output)
	require.NoError(t, err)
	assert.Equal(t, "[RESULT]\nstatus=ok\ncommand=init\n\ncli_ready=1\n", string(data))

	info, err := os.Stat(f.input)
	require.NoError(t, err)
	assert.Equal(t, os.ModeNamedPipe, info.Mode().Type())
}

func TestInit_DisabledDoesNothing(t *testing.T) {
	f := newFixture(t, bridge.Options{})
	require.NoError(t, f.controller.Init())

	_, err := os.Stat(f.output)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(f.input)
	assert.True(t, os.IsNotExist(err))
}

func TestInit_PipeFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, bridge.Options{
		Enabled:    true,
		InputPipe:  filepath.Join(dir, "missing", "cli-in"),
		OutputPath: filepath.Join(dir, "cli-out.txt"),
	})
	assert.Error(t, f.controller.Init())

	data, err := os.ReadFile(f.output)
	require.NoError(t, err)
	assert.Equal(t, "[RESULT]\nstatus=error\ncommand=init\n\nfailed_to_open_cli_pipe\n", string(data))

	assert.NotPanics(t, func() { f.controller.ProcessBackground(context.Background()) })
}

func TestProcessBackground_RunsCommand(t *testing.T) {
	f := newFixture(t, bridge.Options{Enabled: true})
	client := f.connect(t)

	client.Send("  state \r")
	f.controller.ProcessBackground(context.Background())

	assert.Equal(t, transport.Envelope{
		OK:      true,
		Command: "state",
		Body:    query.StateReport(f.engine),
	}, client.Response())
}

func TestProcessBackground_ReportsErrors(t *testing.T) {
	f := newFixture(t, bridge.Options{Enabled: true})
	client := f.connect(t)

	client.Send("fly away")
	f.controller.ProcessBackground(context.Background())

	assert.Equal(t, transport.Envelope{Command: "fly away", Body: "unknown_command"}, client.Response())
}

func TestProcessBackground_LastResponseWins(t *testing.T) {
	f := newFixture(t, bridge.Options{Enabled: true})
	client := f.connect(t)

	client.Send("help")
	client.Send("move ne")
	f.controller.ProcessBackground(context.Background())

	env := client.Response()
	assert.Equal(t, "move ne", env.Command)
	assert.True(t, env.OK)
}

func TestProcessBackground_MaxCommandsPerPoll(t *testing.T) {
	f := newFixture(t, bridge.Options{Enabled: true, MaxCommandsPerPoll: 1})
	client := f.connect(t)

	client.SendRaw("help\nscan_exits\nlo")
	f.controller.ProcessBackground(context.Background())
	assert.Equal(t, "help", client.Response().Command)

	f.controller.ProcessBackground(context.Background())
	assert.Equal(t, "scan_exits", client.Response().Command)

	f.controller.ProcessBackground(context.Background())
	assert.Equal(t, "scan_exits", client.Response().Command, "partial line waits for its newline")

	client.Send("ok")
	f.controller.ProcessBackground(context.Background())
	assert.Equal(t, "look", client.Response().Command)
}

func TestSetEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	input, output := testutil.BridgePaths(t)
	f := newFixture(t, bridge.Options{
		Enabled:    true,
		InputPipe:  input,
		OutputPath: output,
		Metrics:    metrics,
	})
	client := f.connect(t)

	f.controller.SetEnabled(false)
	assert.False(t, f.controller.Enabled())
	client.Send("state")
	f.controller.ProcessBackground(context.Background())
	assert.Equal(t, "init", client.Response().Command)

	f.controller.SetEnabled(true)
	f.controller.ProcessBackground(context.Background())
	assert.Equal(t, "state", client.Response().Command)

	count, err := promtest.GatherAndCount(reg, "simbridge_enabled")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSetEnabled_FirstEnableWritesBanner(t *testing.T) {
	f := newFixture(t, bridge.Options{})
	require.NoError(t, f.controller.Init())
	_, err := os.Stat(f.output)
	require.True(t, os.IsNotExist(err), "a disabled Init writes nothing")

	f.controller.SetEnabled(true)
	client := testutil.NewPipeClient(t, f.input, f.output)
	assert.Equal(t, transport.Envelope{OK: true, Command: "init", Body: "cli_ready=1"}, client.Response())

	client.Send("state")
	f.controller.ProcessBackground(context.Background())
	assert.Equal(t, "state", client.Response().Command)

	f.controller.SetEnabled(false)
	f.controller.SetEnabled(true)
	assert.Equal(t, "state", client.Response().Command, "only the first enable announces readiness")
}

func TestSetEnabled_FirstEnableReportsPipeFailure(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, bridge.Options{
		InputPipe:  filepath.Join(dir, "missing", "cli-in"),
		OutputPath: filepath.Join(dir, "cli-out"),
	})

	f.controller.SetEnabled(true)
	data, err := os.ReadFile(f.output)
	require.NoError(t, err)
	env, err := transport.ParseEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, transport.Envelope{Command: "init", Body: "failed_to_open_cli_pipe"}, env)
}

func TestExit_DropsBufferedInput(t *testing.T) {
	f := newFixture(t, bridge.Options{Enabled: true, MaxCommandsPerPoll: 1})
	client := f.connect(t)

	client.Send("help")
	client.Send("state")
	f.controller.ProcessBackground(context.Background())
	assert.Equal(t, "help", client.Response().Command)

	f.controller.Exit()
	require.NoError(t, f.controller.Init())
	f.controller.ProcessBackground(context.Background())
	assert.Equal(t, "init", client.Response().Command)
}
