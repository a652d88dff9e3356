package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDistributionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDistribution(reg)

	m.IncAssignment("assigned")
	m.IncAssignment("assigned")
	m.IncAssignment("pool")
	m.ObserveClaim("assigned", 5)
	m.ObserveRedistribution("completed", 4, 1)
	m.ObserveDuration("claim", time.Now().Add(-50*time.Millisecond))
	m.SetRelayConnections(3)
	m.IncRelayEvent("new-order", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.assignments.WithLabelValues("assigned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assignments.WithLabelValues("pool")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.claimedOrders))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.movedOrders.WithLabelValues("even")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movedOrders.WithLabelValues("leftover")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.relayClients))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relayEvents.WithLabelValues("new-order", "unknown")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNilDistributionIsNoop(t *testing.T) {
	var m *Distribution
	assert.NotPanics(t, func() {
		m.IncAssignment("pool")
		m.ObserveClaim("assigned", 1)
		m.ObserveRedistribution("completed", 1, 1)
		m.ObserveDuration("claim", time.Now())
		m.SetRelayConnections(1)
		m.IncRelayEvent("x", "y")
	})
	assert.NotPanics(t, func() { NewDistribution(nil).IncAssignment("pool") })
}
