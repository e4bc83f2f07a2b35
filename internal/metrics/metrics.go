// Package metrics exposes relay counters to Prometheus.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without instrumentation in tests.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cipherchat/internal/domain"
	"cipherchat/internal/services/registry"
)

const namespace = "cipherchat"

// Metrics holds the relay's collectors and the registry they belong to.
type Metrics struct {
	reg *prometheus.Registry

	handshakes       *prometheus.CounterVec
	sessions         prometheus.Gauge
	relayed          *prometheus.CounterVec
	deliveryFailures prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		handshakes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handshakes_total",
				Help:      "Number of finished handshakes by terminal state",
			},
			[]string{"state"},
		),
		sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions",
				Help:      "Number of authenticated sessions",
			},
		),
		relayed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relayed_messages_total",
				Help:      "Number of lines fanned out, by origin",
			},
			[]string{"origin"},
		),
		deliveryFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "delivery_failures_total",
				Help:      "Number of per-recipient deliveries that failed",
			},
		),
	}
	m.reg.MustRegister(m.handshakes, m.sessions, m.relayed, m.deliveryFailures)
	return m
}

// Registry returns the Prometheus registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// HandshakeFinished counts a handshake that ended in state.
func (m *Metrics) HandshakeFinished(state string) {
	if m == nil {
		return
	}
	m.handshakes.WithLabelValues(state).Inc()
}

// Relayed counts one fan-out. origin is "user" or "admin".
func (m *Metrics) Relayed(origin string) {
	if m == nil {
		return
	}
	m.relayed.WithLabelValues(origin).Inc()
}

// DeliveryFailed counts one recipient that could not be reached.
func (m *Metrics) DeliveryFailed() {
	if m == nil {
		return
	}
	m.deliveryFailures.Inc()
}

// SessionJoined implements registry.EventSink.
func (m *Metrics) SessionJoined(domain.Username, []registry.Entry) {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// SessionLeft implements registry.EventSink.
func (m *Metrics) SessionLeft(domain.Username, []registry.Entry) {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

var _ registry.EventSink = (*Metrics)(nil)
