package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/metrics"
	"github.com/mikey/phish-guard/internal/utils"
)

// ServiceSettings holds the tunables of the phishing service
type ServiceSettings struct {
	ExplainTimeout time.Duration
	CacheEnabled   bool
	CacheTTL       time.Duration
}

// PhishingService is the core service for phishing risk scoring.
// It is immutable after construction and safe for concurrent use.
type PhishingService struct {
	classifiers ClassifierProvider
	trust       TrustChecker
	typo        TypoDetector
	explainer   Explainer
	cache       CacheRepository
	logger      *zap.Logger
	metrics     *metrics.Recorder
	settings    ServiceSettings
}

// NewPhishingService creates a new phishing service. explainer and cache may be nil.
func NewPhishingService(
	classifiers ClassifierProvider,
	trust TrustChecker,
	typo TypoDetector,
	explainer Explainer,
	cache CacheRepository,
	logger *zap.Logger,
	recorder *metrics.Recorder,
	settings ServiceSettings,
) *PhishingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhishingService{
		classifiers: classifiers,
		trust:       trust,
		typo:        typo,
		explainer:   explainer,
		cache:       cache,
		logger:      logger,
		metrics:     recorder,
		settings:    settings,
	}
}

// HasExplainer reports whether an explainer backend chain is configured
func (s *PhishingService) HasExplainer() bool {
	return s.explainer != nil
}

// Score runs the synchronous scoring pipeline. Malformed senders degrade to
// "not trusted, no alert"; a missing classifier is an error.
func (s *PhishingService) Score(candidate EmailCandidate) (*RiskVerdict, error) {
	if s.classifiers == nil {
		return nil, ErrClassifierUnavailable
	}
	classifier, err := s.classifiers.Classifier()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain classifier: %w", err)
	}

	domain := utils.ExtractDomain(candidate.Sender)

	trusted := false
	if s.trust != nil {
		trusted = s.trust.IsTrusted(domain)
	}

	var alert *TypoAlert
	if s.typo != nil && !trusted {
		alert = s.typo.Check(domain)
	}

	raw := classifier.PredictProbability(utils.ComposeText(candidate.Subject, candidate.Body))

	verdict := Fuse(raw, trusted, alert)
	verdict.SenderDomain = domain

	s.logger.Debug("Scored email",
		zap.String("domain", domain),
		zap.Float64("raw_probability", verdict.RawProbability),
		zap.Float64("adjusted_probability", verdict.AdjustedProbability),
		zap.Bool("trusted", verdict.TrustedSender),
		zap.Bool("typo_alert", verdict.TypoAlert != nil),
		zap.Bool("is_phishing", verdict.IsPhishing))

	s.metrics.ObserveVerdict(verdict.IsPhishing, verdict.TrustedSender, verdict.TypoAlert != nil)

	return &verdict, nil
}

// Analyze scores the candidate and, when the verdict escalates, asks the
// explainer for an explanation. Explainer failures are reported on the
// report and never change the verdict.
func (s *PhishingService) Analyze(ctx context.Context, candidate EmailCandidate, opts AnalyzeOptions) (*AnalysisReport, error) {
	start := time.Now()

	verdict, err := s.Score(candidate)
	if err != nil {
		return nil, err
	}

	report := &AnalysisReport{
		ID:         uuid.NewString(),
		Candidate:  candidate,
		Verdict:    verdict,
		RiskLevel:  verdict.RiskLevel(),
		Escalated:  verdict.NeedsExplanation(),
		AnalyzedAt: start,
	}

	if !opts.SkipExplain && (report.Escalated || opts.ForceExplain) {
		if s.explainer == nil {
			report.ExplanationError = "explanation unavailable: no explainer backend configured"
		} else {
			explanation, err := s.explain(ctx, NewExplainRequest(candidate, verdict))
			if err != nil {
				s.logger.Warn("Explanation failed, keeping verdict",
					zap.String("report_id", report.ID),
					zap.Error(err))
				report.ExplanationError = err.Error()
			} else {
				report.Explanation = explanation
			}
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}

func (s *PhishingService) explain(ctx context.Context, req *ExplainRequest) (*Explanation, error) {
	key, err := cacheKey(req)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if entry, err := s.cache.Get(ctx, key); err == nil && entry != nil {
			s.logger.Debug("Cache hit for explanation", zap.String("key", key))
			s.metrics.ObserveCache(true)
			explanation := entry.Explanation
			return &explanation, nil
		}
		s.metrics.ObserveCache(false)
	}

	if s.settings.ExplainTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.ExplainTimeout)
		defer cancel()
	}

	explanation, err := s.explainer.Explain(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		now := time.Now()
		entry := &CacheEntry{
			Key:         key,
			Explanation: *explanation,
			CreatedAt:   now,
			ExpiresAt:   now.Add(s.settings.CacheTTL),
		}
		// Use a fresh context so an expired explainer deadline does not drop the write
		if err := s.cache.Set(context.Background(), entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return explanation, nil
}

func (s *PhishingService) cacheEnabled() bool {
	return s.settings.CacheEnabled && s.cache != nil
}

// cacheKey hashes the explain request so identical inputs share an explanation
func cacheKey(req *ExplainRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal explain request: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
