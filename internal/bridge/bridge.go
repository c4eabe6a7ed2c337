// Package bridge connects the command transport to the dispatcher and
// exposes the three hooks a host calls: Init at startup, ProcessBackground
// once per tick and Exit at shutdown.
package bridge

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/bridge/dispatch"
	"github.com/cory-johannsen/simbridge/internal/bridge/transport"
	"github.com/cory-johannsen/simbridge/internal/observability"
)

const (
	initCommand     = "init"
	initReadyBody   = "cli_ready=1"
	initFailureBody = "failed_to_open_cli_pipe"
)

// Options configures a Controller.
type Options struct {
	// Enabled turns polling on from the start.
	Enabled bool
	// InputPipe is the command pipe path.
	InputPipe string
	// OutputPath is the response file path.
	OutputPath string
	// MaxCommandsPerPoll bounds the commands run per ProcessBackground; 0 runs
	// every complete line.
	MaxCommandsPerPoll int
	// Logger must be non-nil.
	Logger *zap.Logger
	// Metrics may be nil.
	Metrics *observability.Metrics
}

// Controller owns the bridge's process-wide state: the enabled flag, the
// transport handles and the dispatcher. It is driven from a single goroutine.
type Controller struct {
	enabled bool
	// started is set once Init has run while enabled.
	started    bool
	maxPerPoll int
	pipe       *transport.Pipe
	sink       *transport.Sink
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// New builds a Controller that runs commands through d.
//
// Precondition: d and opts.Logger must be non-nil; the paths must be non-empty.
func New(d *dispatch.Dispatcher, opts Options) *Controller {
	c := &Controller{
		enabled:    opts.Enabled,
		maxPerPoll: opts.MaxCommandsPerPoll,
		pipe:       transport.NewPipe(opts.InputPipe, opts.Logger, opts.Metrics),
		sink:       transport.NewSink(opts.OutputPath, opts.Logger),
		dispatcher: d,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
	c.metrics.SetEnabled(c.enabled)
	return c
}

// Enabled reports whether ProcessBackground polls for commands.
func (c *Controller) Enabled() bool { return c.enabled }

// SetEnabled turns polling on or off. Turning it off does not close the pipe.
// Enabling a controller whose Init was skipped because it started disabled
// runs Init now, so the response file still gets its init envelope.
func (c *Controller) SetEnabled(enabled bool) {
	if c.enabled != enabled {
		c.logger.Info("bridge polling changed", zap.Bool("enabled", enabled))
	}
	c.enabled = enabled
	c.metrics.SetEnabled(enabled)
	if enabled && !c.started {
		// Init reports its own failure in the response file.
		_ = c.Init()
	}
}

// Init resets the transport and announces readiness in the response file.
// A disabled controller does nothing. A pipe that cannot be opened is
// reported in the response file and returned; the host keeps running and
// later polls retry the open.
//
// Postcondition: When enabled, the response file holds the init envelope.
func (c *Controller) Init() error {
	if !c.enabled {
		return nil
	}
	c.started = true
	c.pipe.Close()

	if err := c.pipe.Open(); err != nil {
		c.writeResponse(transport.Envelope{Command: initCommand, Body: initFailureBody})
		return err
	}
	c.writeResponse(transport.Envelope{OK: true, Command: initCommand, Body: initReadyBody})
	c.logger.Info("bridge ready",
		zap.String("input_pipe", c.pipe.Path()),
		zap.String("output_path", c.sink.Path()),
	)
	return nil
}

// Exit closes the pipe and drops any buffered input.
func (c *Controller) Exit() {
	c.started = false
	c.pipe.Close()
}

// ProcessBackground runs the commands currently waiting on the pipe, each to
// completion, writing one response per command. A disabled controller does
// nothing.
//
// Precondition: ctx bounds any wait a command performs.
func (c *Controller) ProcessBackground(ctx context.Context) {
	if !c.enabled {
		return
	}
	for _, line := range c.pipe.Poll(c.maxPerPoll) {
		resp := c.dispatcher.Dispatch(ctx, line)
		c.writeResponse(transport.Envelope{OK: resp.OK, Command: line, Body: resp.Body})
	}
}

// writeResponse publishes env. Write failures are logged by the sink and
// otherwise ignored.
func (c *Controller) writeResponse(env transport.Envelope) {
	_ = c.sink.Write(env)
}
