package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes the scoring pipeline counters. A nil *Recorder is valid and records nothing.
type Recorder struct {
	analyzed        prometheus.Counter
	phishing        prometheus.Counter
	trustedSenders  prometheus.Counter
	typoAlerts      prometheus.Counter
	explainAttempts *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// NewRecorder creates the counters and registers them with reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		analyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phish_guard_analyzed_total",
			Help: "Total number of emails scored",
		}),
		phishing: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phish_guard_phishing_total",
			Help: "Total number of emails scored as phishing",
		}),
		trustedSenders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phish_guard_trusted_sender_total",
			Help: "Total number of emails from trusted sender domains",
		}),
		typoAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phish_guard_typosquat_alerts_total",
			Help: "Total number of typosquatting alerts raised",
		}),
		explainAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phish_guard_explainer_attempts_total",
			Help: "Explainer backend attempts by backend and outcome",
		}, []string{"backend", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phish_guard_explanation_cache_lookups_total",
			Help: "Explanation cache lookups by result",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{
		r.analyzed, r.phishing, r.trustedSenders, r.typoAlerts, r.explainAttempts, r.cacheLookups,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveVerdict counts a scored email
func (r *Recorder) ObserveVerdict(phishing, trusted, typoAlert bool) {
	if r == nil {
		return
	}
	r.analyzed.Inc()
	if phishing {
		r.phishing.Inc()
	}
	if trusted {
		r.trustedSenders.Inc()
	}
	if typoAlert {
		r.typoAlerts.Inc()
	}
}

// ObserveExplainAttempt counts one explainer backend attempt
func (r *Recorder) ObserveExplainAttempt(backend, outcome string) {
	if r == nil {
		return
	}
	r.explainAttempts.WithLabelValues(backend, outcome).Inc()
}

// ObserveCache counts an explanation cache lookup
func (r *Recorder) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}
