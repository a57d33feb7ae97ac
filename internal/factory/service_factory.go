package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/classifier"
	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/metrics"
	"github.com/mikey/phish-guard/internal/trust"
	"github.com/mikey/phish-guard/internal/typosquat"
)

// ServiceDeps are the collaborators of the phishing service. Explainer and
// Cache may be nil.
type ServiceDeps struct {
	Provider  *classifier.Provider
	Trust     *trust.Matcher
	Typo      *typosquat.Detector
	Explainer core.Explainer
	Cache     core.CacheRepository
	Recorder  *metrics.Recorder
}

// CreatePhishingService assembles the phishing service from configuration
func CreatePhishingService(cfg *config.Config, logger *zap.Logger, deps ServiceDeps) (*core.PhishingService, error) {
	explainerCfg, err := cfg.GetExplainer()
	if err != nil {
		return nil, err
	}
	cacheCfg, err := cfg.GetCache()
	if err != nil {
		return nil, err
	}

	return core.NewPhishingService(
		deps.Provider,
		deps.Trust,
		deps.Typo,
		deps.Explainer,
		deps.Cache,
		logger,
		deps.Recorder,
		core.ServiceSettings{
			ExplainTimeout: explainerCfg.Timeout,
			CacheEnabled:   cacheCfg.Enabled,
			CacheTTL:       cacheCfg.TTL,
		},
	), nil
}
