package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/explainer"
	"github.com/mikey/phish-guard/internal/metrics"
	"github.com/mikey/phish-guard/internal/utils"
)

// ExplainerFactory assembles the explainer backend chain
type ExplainerFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	llm       *LLMFactory
	processor *utils.TextProcessor
	recorder  *metrics.Recorder
}

// NewExplainerFactory creates a new explainer factory
func NewExplainerFactory(
	cfg *config.Config,
	logger *zap.Logger,
	llm *LLMFactory,
	processor *utils.TextProcessor,
	recorder *metrics.Recorder,
) *ExplainerFactory {
	return &ExplainerFactory{
		cfg:       cfg,
		logger:    logger,
		llm:       llm,
		processor: processor,
		recorder:  recorder,
	}
}

// CreateExplainer returns the backend chain, or nil when explanations are
// disabled or no backend could be created
func (f *ExplainerFactory) CreateExplainer() (core.Explainer, error) {
	explainerCfg, err := f.cfg.GetExplainer()
	if err != nil {
		return nil, err
	}
	if !explainerCfg.Enabled {
		f.logger.Info("Explainer disabled")
		return nil, nil
	}

	mode, err := explainer.ParseMode(explainerCfg.Mode)
	if err != nil {
		return nil, err
	}

	clients := f.llm.CreateLLMClients()
	if len(clients) == 0 {
		f.logger.Warn("No explainer backend available, explanations disabled")
		return nil, nil
	}

	chain := explainer.NewChain(
		clients,
		explainer.NewPromptBuilder(mode, explainerCfg.MaxBodySize, f.processor),
		explainer.BreakerSettings{
			MaxRequests:         explainerCfg.Breaker.MaxRequests,
			Interval:            explainerCfg.Breaker.Interval,
			Timeout:             explainerCfg.Breaker.Timeout,
			ConsecutiveFailures: explainerCfg.Breaker.ConsecutiveFailures,
		},
		f.logger,
		f.recorder,
	)
	f.logger.Info("Explainer ready",
		zap.Strings("backends", chain.Backends()),
		zap.String("mode", string(mode)))

	return chain, nil
}
