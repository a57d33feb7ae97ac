package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/metrics"
	"github.com/mikey/phish-guard/internal/trust"
	"github.com/mikey/phish-guard/internal/typosquat"
)

type fixedClassifier float64

func (f fixedClassifier) PredictProbability(string) float64 { return float64(f) }

type failingExplainer struct{}

func (failingExplainer) Explain(context.Context, *core.ExplainRequest) (*core.Explanation, error) {
	return nil, errors.New("backend down")
}

type stubExplainer struct{}

func (stubExplainer) Explain(context.Context, *core.ExplainRequest) (*core.Explanation, error) {
	return &core.Explanation{
		Score:       95,
		IsPhishing:  true,
		Explanation: "Sender imitates PayPal.",
		RiskFactors: []string{"Typosquatting", "Urgency"},
		Structured:  true,
		ModelUsed:   "gemini:gemini-2.5-flash",
	}, nil
}

func newService(classifier core.Classifier, explainer core.Explainer, recorder *metrics.Recorder) *core.PhishingService {
	matcher := trust.NewMatcher(trust.DefaultDomains, zap.NewNop())
	return core.NewPhishingService(
		core.StaticClassifier{C: classifier},
		matcher,
		typosquat.NewDetector(nil, matcher, zap.NewNop()),
		explainer,
		nil,
		zap.NewNop(),
		recorder,
		core.ServiceSettings{},
	)
}

func TestCliFilter_PrintsReport(t *testing.T) {
	var out bytes.Buffer
	f, err := NewCliFilterWithWriter(newService(fixedClassifier(0.91), stubExplainer{}, nil), zap.NewNop(), &out, false, false)
	require.NoError(t, err)

	report, err := f.ProcessEmail(context.Background(), core.EmailCandidate{
		Sender:  "security@paypa1.com",
		Subject: "Account restricted",
		Body:    "Verify your account now",
	}, core.AnalyzeOptions{})
	require.NoError(t, err)
	assert.True(t, report.Verdict.IsPhishing)

	text := out.String()
	assert.Contains(t, text, "WARNING: Suspicious Domain Detected: 'paypa1.com' is very similar to PayPal")
	assert.Contains(t, text, "Is phishing: true")
	assert.Contains(t, text, "Phishing probability: 91.00%")
	assert.Contains(t, text, "Risk level: critical")
	assert.Contains(t, text, "Risk factors: Typosquatting, Urgency")
}

func TestCliFilter_VerbosePreviewKeepsRunes(t *testing.T) {
	var out bytes.Buffer
	f, err := NewCliFilterWithWriter(newService(fixedClassifier(0.1), nil, nil), zap.NewNop(), &out, true, false)
	require.NoError(t, err)

	// 601 bytes; byte 500 falls inside a two-byte rune
	body := "a" + strings.Repeat("é", 300)
	_, err = f.ProcessEmail(context.Background(), core.EmailCandidate{Sender: "a@example.org", Body: body}, core.AnalyzeOptions{})
	require.NoError(t, err)

	text := out.String()
	assert.True(t, utf8.ValidString(text))
	assert.Contains(t, text, "a"+strings.Repeat("é", 249)+"...\n")
	assert.NotContains(t, text, strings.Repeat("é", 250))
}

func TestCliFilter_JSONOutput(t *testing.T) {
	var out bytes.Buffer
	f, err := NewCliFilterWithWriter(newService(fixedClassifier(0.2), failingExplainer{}, nil), zap.NewNop(), &out, false, true)
	require.NoError(t, err)

	_, err = f.ProcessEmail(context.Background(), core.EmailCandidate{
		Sender: "friend@example.org",
		Body:   "Lunch tomorrow?",
	}, core.AnalyzeOptions{ForceExplain: true})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "low", decoded["risk_level"])
	assert.Equal(t, "backend down", decoded["explanation_error"])
}

func TestCliFilter_RequiresSenderAndBody(t *testing.T) {
	f, err := NewCliFilterWithWriter(newService(fixedClassifier(0.5), nil, nil), zap.NewNop(), io.Discard, false, false)
	require.NoError(t, err)

	_, err = f.ProcessEmail(context.Background(), core.EmailCandidate{Sender: "a@b.com", Body: "  "}, core.AnalyzeOptions{})
	assert.ErrorIs(t, err, ErrInvalidCandidate)

	_, err = NewCliFilter(nil, zap.NewNop(), false, false)
	assert.Error(t, err)
}

func newHTTPFilter(t *testing.T, service *core.PhishingService, gatherer prometheus.Gatherer) *HTTPFilter {
	t.Helper()
	f, err := NewHTTPFilter(service, zap.NewNop(), "127.0.0.1:0", 0, gatherer)
	require.NoError(t, err)
	return f
}

func postAnalyze(t *testing.T, f *HTTPFilter, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestHTTPFilter_Analyze(t *testing.T) {
	f := newHTTPFilter(t, newService(fixedClassifier(0.92), nil, nil), nil)

	status, body := postAnalyze(t, f, `{"sender": "billing@google.com", "subject": "Invoice", "body": "Your invoice is attached"}`)
	require.Equal(t, 200, status)

	verdict := body["verdict"].(map[string]interface{})
	assert.Equal(t, true, verdict["trusted_sender"])
	assert.InDelta(t, 0.52, verdict["adjusted_probability"].(float64), 1e-9)
	assert.Equal(t, true, verdict["is_phishing"])
	assert.Equal(t, "explanation unavailable: no explainer backend configured", body["explanation_error"])
	assert.NotEmpty(t, body["id"])
}

func TestHTTPFilter_ExplainFlagSkips(t *testing.T) {
	f := newHTTPFilter(t, newService(fixedClassifier(0.95), stubExplainer{}, nil), nil)

	status, body := postAnalyze(t, f, `{"sender": "x@paypa1.com", "body": "verify", "explain": false}`)
	require.Equal(t, 200, status)
	assert.Nil(t, body["explanation"])
	assert.Equal(t, true, body["escalated"])
}

func TestHTTPFilter_Validation(t *testing.T) {
	f := newHTTPFilter(t, newService(fixedClassifier(0.5), nil, nil), nil)

	status, body := postAnalyze(t, f, `{"sender": "", "body": "hello"}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, ErrInvalidCandidate.Error(), body["error"])

	status, _ = postAnalyze(t, f, `not json`)
	assert.Equal(t, 400, status)
}

func TestHTTPFilter_ClassifierUnavailable(t *testing.T) {
	f := newHTTPFilter(t, newService(nil, nil, nil), nil)

	status, body := postAnalyze(t, f, `{"sender": "a@b.com", "body": "hello"}`)
	assert.Equal(t, 503, status)
	assert.Equal(t, "classifier unavailable", body["error"])
}

func TestHTTPFilter_HealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	f := newHTTPFilter(t, newService(fixedClassifier(0.1), nil, recorder), reg)

	resp, err := f.App().Test(httptest.NewRequest("GET", "/healthz", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	resp.Body.Close()

	status, _ := postAnalyze(t, f, `{"sender": "a@b.com", "body": "hello"}`)
	require.Equal(t, 200, status)

	resp, err = f.App().Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "phish_guard_analyzed_total 1")
}
