package core

import (
	"fmt"
	"time"
)

// EmailCandidate represents the email metadata submitted for analysis
type EmailCandidate struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TypoAlert describes a sender domain that sits within a small edit distance
// of a brand's official domain
type TypoAlert struct {
	SuspectDomain  string `json:"suspect_domain"`
	MatchedBrand   string `json:"matched_brand"`
	OfficialDomain string `json:"official_domain"`
	EditDistance   int    `json:"edit_distance"`
}

// Message returns the human-readable warning for the alert
func (a *TypoAlert) Message() string {
	return fmt.Sprintf("Suspicious Domain Detected: '%s' is very similar to %s (%s). Possible Typosquatting!",
		a.SuspectDomain, a.MatchedBrand, a.OfficialDomain)
}

// RiskVerdict is the fused output of the scoring pipeline
type RiskVerdict struct {
	RawProbability      float64    `json:"raw_probability"`
	AdjustedProbability float64    `json:"adjusted_probability"`
	IsPhishing          bool       `json:"is_phishing"`
	TrustedSender       bool       `json:"trusted_sender"`
	SenderDomain        string     `json:"sender_domain"`
	TypoAlert           *TypoAlert `json:"typo_alert,omitempty"`
}

// NeedsExplanation reports whether the verdict should be escalated to the explainer.
// A typosquat hit escalates on its own even when the classifier score is low.
func (v *RiskVerdict) NeedsExplanation() bool {
	return v.IsPhishing || v.TypoAlert != nil
}

// RiskLevel converts the adjusted probability to a categorical level
func (v *RiskVerdict) RiskLevel() string {
	score := v.AdjustedProbability
	switch {
	case score >= 0.85:
		return "critical"
	case score > PhishingThreshold:
		return "high"
	case score >= 0.30:
		return "medium"
	case score >= 0.15:
		return "low"
	default:
		return "none"
	}
}

// ExplainRequest is the payload sent to the external explanation service
type ExplainRequest struct {
	Sender              string     `json:"sender"`
	Subject             string     `json:"subject"`
	Body                string     `json:"body"`
	RawProbability      float64    `json:"raw_probability"`
	AdjustedProbability float64    `json:"adjusted_probability"`
	TrustedSender       bool       `json:"trusted_sender"`
	TypoAlert           *TypoAlert `json:"typo_alert,omitempty"`
}

// NewExplainRequest builds the explainer payload for a scored candidate
func NewExplainRequest(candidate EmailCandidate, verdict *RiskVerdict) *ExplainRequest {
	return &ExplainRequest{
		Sender:              candidate.Sender,
		Subject:             candidate.Subject,
		Body:                candidate.Body,
		RawProbability:      verdict.RawProbability,
		AdjustedProbability: verdict.AdjustedProbability,
		TrustedSender:       verdict.TrustedSender,
		TypoAlert:           verdict.TypoAlert,
	}
}

// Explanation is the explainer's answer. In free-text mode only Explanation is set.
type Explanation struct {
	Score       int      `json:"score"`
	IsPhishing  bool     `json:"is_phishing"`
	Explanation string   `json:"explanation"`
	RiskFactors []string `json:"risk_factors"`
	Structured  bool     `json:"structured"`
	ModelUsed   string   `json:"model_used"`
}

// AnalysisReport bundles a verdict with the optional explanation
type AnalysisReport struct {
	ID               string         `json:"id"`
	Candidate        EmailCandidate `json:"-"`
	Verdict          *RiskVerdict   `json:"verdict"`
	RiskLevel        string         `json:"risk_level"`
	Escalated        bool           `json:"escalated"`
	Explanation      *Explanation   `json:"explanation,omitempty"`
	ExplanationError string         `json:"explanation_error,omitempty"`
	AnalyzedAt       time.Time      `json:"analyzed_at"`
	Duration         time.Duration  `json:"duration_ns"`
}

// AnalyzeOptions tunes a single Analyze call
type AnalyzeOptions struct {
	// ForceExplain requests an explanation even when the verdict does not escalate
	ForceExplain bool
	// SkipExplain disables the explainer for this call
	SkipExplain bool
}

// CacheEntry is a cached explanation
type CacheEntry struct {
	Key         string
	Explanation Explanation
	CreatedAt   time.Time
	ExpiresAt   time.Time
}
