// Package metrics exposes pipeline counters through a dedicated
// prometheus registry. Counters are plain atomics updated on the hot
// path; the registry reads them lazily on scrape.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	framesReceived   atomic.Int64
	framesProcessed  atomic.Int64
	framesSuperseded atomic.Int64
	decodeErrors     atomic.Int64
	providerTimeouts atomic.Int64
	emitDrops        atomic.Int64
	activeSessions   atomic.Int64

	registry *prometheus.Registry
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	gauges := []struct {
		name string
		help string
		read func() int64
	}{
		{"monitor_frames_received_total", "Frames accepted from client websockets.", m.framesReceived.Load},
		{"monitor_frames_processed_total", "Frames that completed the full pipeline.", m.framesProcessed.Load},
		{"monitor_frames_superseded_total", "Frames replaced in the slot before processing.", m.framesSuperseded.Load},
		{"monitor_decode_errors_total", "Frames dropped because decoding failed.", m.decodeErrors.Load},
		{"monitor_provider_timeouts_total", "Landmark requests that exceeded the deadline.", m.providerTimeouts.Load},
		{"monitor_emit_drops_total", "Status updates dropped on a full result channel.", m.emitDrops.Load},
		{"monitor_active_sessions", "Currently open monitoring sessions.", m.activeSessions.Load},
	}

	for _, g := range gauges {
		read := g.read
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: g.name, Help: g.help},
			func() float64 { return float64(read()) },
		))
	}

	return m
}

func (m *Metrics) FrameReceived()   { m.framesReceived.Add(1) }
func (m *Metrics) FrameProcessed()  { m.framesProcessed.Add(1) }
func (m *Metrics) FrameSuperseded() { m.framesSuperseded.Add(1) }
func (m *Metrics) DecodeError()     { m.decodeErrors.Add(1) }
func (m *Metrics) ProviderTimeout() { m.providerTimeouts.Add(1) }
func (m *Metrics) EmitDrop()        { m.emitDrops.Add(1) }
func (m *Metrics) SessionStarted()  { m.activeSessions.Add(1) }
func (m *Metrics) SessionStopped()  { m.activeSessions.Add(-1) }

func (m *Metrics) ActiveSessions() int64 {
	return m.activeSessions.Load()
}

// Handler serves the exposition endpoint for this registry only.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
