package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.TriggerAccepted("manual")
	r.TriggerDropped("item_changed")
	r.TriggerDropped("item_changed")
	r.Outcome("verdict")
	r.StaleDiscarded()
	r.CacheHit()
	r.CacheMiss()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.triggers.WithLabelValues("manual", "accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.triggers.WithLabelValues("item_changed", "dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomes.WithLabelValues("verdict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stale))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cache.WithLabelValues("hit")))

	_, err = NewRecorder(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.TriggerAccepted("manual")
		r.TriggerDropped("manual")
		r.Outcome("verdict")
		r.StaleDiscarded()
		r.CacheHit()
		r.CacheMiss()
	})
}
