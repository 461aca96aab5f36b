package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counts(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Event("activity.added", true)
	m.Event("activity.added", false)
	m.Event("activity.added", false)
	m.Fetch("get_activity", nil)
	m.Fetch("get_activity", errors.New("boom"))
	m.DedupJoin("get_activity")
	m.StaleResponse()
	m.Rollback("add_reaction")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("activity.added", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("activity.added", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("get_activity", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dedup.WithLabelValues("get_activity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stale))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rollbacks.WithLabelValues("add_reaction")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Event("x", true)
		m.Fetch("x", nil)
		m.DedupJoin("x")
		m.StaleResponse()
		m.Rollback("x")
	})
}
