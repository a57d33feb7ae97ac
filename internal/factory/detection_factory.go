package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/trust"
	"github.com/mikey/phish-guard/internal/typosquat"
)

// DetectionFactory creates the trust matcher and typosquatting detector
type DetectionFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDetectionFactory creates a new detection factory
func NewDetectionFactory(cfg *config.Config, logger *zap.Logger) *DetectionFactory {
	return &DetectionFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTrustMatcher creates the trust matcher. An empty list uses the built-in domains.
func (f *DetectionFactory) CreateTrustMatcher() *trust.Matcher {
	domains := f.cfg.GetTrust().Domains
	if len(domains) == 0 {
		domains = trust.DefaultDomains
	}
	return trust.NewMatcher(domains, f.logger.Named("trust"))
}

// CreateTypoDetector creates the typosquatting detector. An empty table uses the built-in brands.
func (f *DetectionFactory) CreateTypoDetector(matcher *trust.Matcher) (*typosquat.Detector, error) {
	typoCfg, err := f.cfg.GetTyposquat()
	if err != nil {
		return nil, err
	}

	targets := make([]typosquat.BrandTarget, 0, len(typoCfg.Targets))
	for _, t := range typoCfg.Targets {
		targets = append(targets, typosquat.BrandTarget{
			Domain:   t.Domain,
			Name:     t.Name,
			Priority: t.Priority,
		})
	}

	return typosquat.NewDetector(targets, matcher, f.logger.Named("typosquat")), nil
}
