package core

import (
	"context"
)

// Classifier maps message text to a phishing probability in [0,1].
// Implementations must be deterministic and safe for concurrent reads.
type Classifier interface {
	PredictProbability(text string) float64
}

// ClassifierProvider hands out the shared classifier, loading it on first use
type ClassifierProvider interface {
	Classifier() (Classifier, error)
}

// TrustChecker decides whether a normalized domain is on the allowlist
type TrustChecker interface {
	IsTrusted(domain string) bool
}

// TypoDetector compares a normalized domain against brand targets
type TypoDetector interface {
	Check(domain string) *TypoAlert
}

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	// Name identifies the backend as provider:model
	Name() string

	// Generate sends a prompt and returns the raw response text
	Generate(ctx context.Context, prompt string) (string, error)
}

// Explainer produces a natural-language explanation for a scored email
type Explainer interface {
	Explain(ctx context.Context, req *ExplainRequest) (*Explanation, error)
}

// CacheRepository defines the interface for caching explanations
type CacheRepository interface {
	// Get retrieves a cached entry by key
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// StaticClassifier wraps an already loaded classifier as a provider
type StaticClassifier struct {
	C Classifier
}

// Classifier returns the wrapped classifier or ErrClassifierUnavailable when nil
func (s StaticClassifier) Classifier() (Classifier, error) {
	if s.C == nil {
		return nil, ErrClassifierUnavailable
	}
	return s.C, nil
}
