package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts analyzer activity. A nil Recorder records nothing.
type Recorder struct {
	triggers *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	stale    prometheus.Counter
	cache    *prometheus.CounterVec
}

// NewRecorder creates a recorder and registers its collectors with reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phish_analyzer_triggers_total",
			Help: "Analysis triggers by kind and whether a run was started",
		}, []string{"kind", "result"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phish_analyzer_outcomes_total",
			Help: "Finished analysis runs by outcome",
		}, []string{"outcome"}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phish_analyzer_stale_discarded_total",
			Help: "Runs discarded because the selected item changed while they were in flight",
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phish_analyzer_cache_lookups_total",
			Help: "Verdict cache lookups",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{r.triggers, r.outcomes, r.stale, r.cache} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// TriggerAccepted records a trigger that started a run
func (r *Recorder) TriggerAccepted(kind string) {
	if r == nil {
		return
	}
	r.triggers.WithLabelValues(kind, "accepted").Inc()
}

// TriggerDropped records a trigger ignored because a run was in flight
func (r *Recorder) TriggerDropped(kind string) {
	if r == nil {
		return
	}
	r.triggers.WithLabelValues(kind, "dropped").Inc()
}

// Outcome records a published run
func (r *Recorder) Outcome(outcome string) {
	if r == nil {
		return
	}
	r.outcomes.WithLabelValues(outcome).Inc()
}

// StaleDiscarded records a run whose result was thrown away
func (r *Recorder) StaleDiscarded() {
	if r == nil {
		return
	}
	r.stale.Inc()
}

// CacheHit records a verdict served from cache
func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cache.WithLabelValues("hit").Inc()
}

// CacheMiss records a cache lookup that fell through to the model
func (r *Recorder) CacheMiss() {
	if r == nil {
		return
	}
	r.cache.WithLabelValues("miss").Inc()
}
