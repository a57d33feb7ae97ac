package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/classifier"
	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/factory"
	"github.com/mikey/phish-guard/internal/logging"
	"github.com/mikey/phish-guard/internal/metrics"
	"github.com/mikey/phish-guard/internal/trust"
	"github.com/mikey/phish-guard/internal/typosquat"
	"github.com/mikey/phish-guard/internal/utils"
)

// BuildContainer creates and configures a dependency injection container for
// the long-running server. Logging follows the configuration file; only the
// config path and override flags are taken from flags.
func BuildContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		cfg, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register metrics registry with process collectors
	if err := container.Provide(func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg
	}); err != nil {
		return nil, err
	}

	if err := provideShared(container); err != nil {
		return nil, err
	}
	return container, nil
}

// provideShared registers everything both containers build the same way.
// The container must already provide *config.Config, *zap.Logger and
// *prometheus.Registry.
func provideShared(container *dig.Container) error {
	providers := []interface{}{
		// Metrics
		func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
		func(reg *prometheus.Registry) (*metrics.Recorder, error) { return metrics.NewRecorder(reg) },

		// Factories
		factory.NewTextProcessorFactory,
		factory.NewLLMFactory,
		factory.NewExplainerFactory,
		factory.NewCacheFactory,
		factory.NewClassifierFactory,
		factory.NewDetectionFactory,
		factory.NewFilterFactory,

		// Text processor
		func(f *factory.TextProcessorFactory) *utils.TextProcessor { return f.CreateTextProcessor() },

		// Detection tables
		func(f *factory.DetectionFactory) *trust.Matcher { return f.CreateTrustMatcher() },
		func(f *factory.DetectionFactory, m *trust.Matcher) (*typosquat.Detector, error) {
			return f.CreateTypoDetector(m)
		},

		// Classifier
		func(f *factory.ClassifierFactory) *classifier.Provider { return f.CreateProvider() },

		// Explainer chain
		func(f *factory.ExplainerFactory) (core.Explainer, error) { return f.CreateExplainer() },

		// Explanation cache
		func(f *factory.CacheFactory) (core.CacheRepository, error) { return f.CreateCacheRepository() },

		// Phishing service
		func(
			cfg *config.Config,
			logger *zap.Logger,
			provider *classifier.Provider,
			matcher *trust.Matcher,
			detector *typosquat.Detector,
			explainer core.Explainer,
			cache core.CacheRepository,
			recorder *metrics.Recorder,
		) (*core.PhishingService, error) {
			return factory.CreatePhishingService(cfg, logger, factory.ServiceDeps{
				Provider:  provider,
				Trust:     matcher,
				Typo:      detector,
				Explainer: explainer,
				Cache:     cache,
				Recorder:  recorder,
			})
		},
	}

	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return err
		}
	}
	return nil
}
