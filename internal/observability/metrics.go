package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bridge's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	gotoTotal       *prometheus.CounterVec
	pipeOpensTotal  *prometheus.CounterVec
	bridgeEnabled   prometheus.Gauge
}

// NewMetrics creates the bridge collectors and registers them with reg.
//
// Precondition: reg must be non-nil and must not already hold these collectors.
// Postcondition: Returns Metrics whose Handler serves reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simbridge_commands_total",
			Help: "Commands processed, by command name and status.",
		}, []string{"command", "status"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "simbridge_command_duration_seconds",
			Help:    "Time spent executing one command.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 30, 60},
		}, []string{"command"}),
		gotoTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simbridge_goto_total",
			Help: "Goto plans, by outcome.",
		}, []string{"outcome"}),
		pipeOpensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simbridge_pipe_opens_total",
			Help: "Attempts to open the request pipe, by result.",
		}, []string{"result"}),
		bridgeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "simbridge_enabled",
			Help: "1 while the bridge polls for commands.",
		}),
	}
	reg.MustRegister(
		m.commandsTotal,
		m.commandDuration,
		m.gotoTotal,
		m.pipeOpensTotal,
		m.bridgeEnabled,
	)
	return m
}

// ObserveCommand records one finished command.
func (m *Metrics) ObserveCommand(command string, ok bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.commandsTotal.WithLabelValues(command, status).Inc()
	m.commandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// ObserveGoto records the outcome of one goto: arrived, capped, partial,
// unreachable or failed.
func (m *Metrics) ObserveGoto(outcome string) {
	if m == nil {
		return
	}
	m.gotoTotal.WithLabelValues(outcome).Inc()
}

// ObservePipeOpen records one attempt to open the request pipe.
func (m *Metrics) ObservePipeOpen(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.pipeOpensTotal.WithLabelValues(result).Inc()
}

// SetEnabled mirrors the bridge's enabled flag.
func (m *Metrics) SetEnabled(enabled bool) {
	if m == nil {
		return
	}
	if enabled {
		m.bridgeEnabled.Set(1)
		return
	}
	m.bridgeEnabled.Set(0)
}

// Handler serves the registered collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
