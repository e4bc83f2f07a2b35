package metrics_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"cipherchat/internal/metrics"
)

func TestCounters(t *testing.T) {
	m := metrics.New()

	m.HandshakeFinished("authenticated")
	m.HandshakeFinished("rejected")
	m.HandshakeFinished("rejected")
	m.Relayed("user")
	m.DeliveryFailed()
	m.SessionJoined("alice", nil)
	m.SessionJoined("bob", nil)
	m.SessionLeft("alice", nil)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	require.Contains(t, body, `cipherchat_handshakes_total{state="rejected"} 2`)
	require.Contains(t, body, "cipherchat_sessions 1")
	require.Contains(t, body, `cipherchat_relayed_messages_total{origin="user"} 1`)
	require.Contains(t, body, "cipherchat_delivery_failures_total 1")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.HandshakeFinished("closed")
		m.Relayed("admin")
		m.DeliveryFailed()
		m.SessionJoined("alice", nil)
		m.SessionLeft("alice", nil)
	})
}
