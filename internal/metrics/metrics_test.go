package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ObserveVerdict(true, false, true)
	r.ObserveVerdict(false, true, false)
	r.ObserveExplainAttempt("gemini:gemini-2.5-flash", "timeout")
	r.ObserveExplainAttempt("gemini:gemini-2.5-flash", "success")
	r.ObserveCache(true)
	r.ObserveCache(false)
	r.ObserveCache(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.analyzed))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.phishing))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.trustedSenders))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.typoAlerts))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.explainAttempts.WithLabelValues("gemini:gemini-2.5-flash", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("miss")))
}

func TestRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveVerdict(true, true, true)
		r.ObserveExplainAttempt("x", "error")
		r.ObserveCache(true)
	})
}
