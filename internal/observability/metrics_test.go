package observability

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveCommand(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveCommand("look", true, time.Millisecond)
	m.ObserveCommand("look", true, time.Millisecond)
	m.ObserveCommand("goto", false, time.Second)

	assert.Equal(t, 2.0, promtest.ToFloat64(m.commandsTotal.WithLabelValues("look", "ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.commandsTotal.WithLabelValues("goto", "error")))
	assert.Equal(t, 2, promtest.CollectAndCount(m.commandDuration))
}

func TestMetrics_GotoAndPipe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveGoto("arrived")
	m.ObserveGoto("unreachable")
	m.ObserveGoto("arrived")
	m.ObservePipeOpen(nil)
	m.ObservePipeOpen(errors.New("enxio"))

	assert.Equal(t, 2.0, promtest.ToFloat64(m.gotoTotal.WithLabelValues("arrived")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.pipeOpensTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.pipeOpensTotal.WithLabelValues("error")))
}

func TestMetrics_SetEnabled(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.SetEnabled(true)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.bridgeEnabled))
	m.SetEnabled(false)
	assert.Equal(t, 0.0, promtest.ToFloat64(m.bridgeEnabled))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCommand("look", true, time.Millisecond)
		m.ObserveGoto("arrived")
		m.ObservePipeOpen(nil)
		m.SetEnabled(true)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveCommand("state", true, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `simbridge_commands_total{command="state",status="ok"} 1`)
}
