package classifier

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
)

// DefaultModelPath is where the artifact lives when none is configured
const DefaultModelPath = "models/phishing_model.json"

// ProviderSettings configures how the shared model is obtained
type ProviderSettings struct {
	ModelPath  string
	AutoTrain  bool
	CorpusPath string
	Trainer    TrainerSettings
}

// Provider loads the model artifact once and shares it between callers.
// When the artifact is missing or unreadable and AutoTrain is set, it trains
// a fresh model and persists it.
type Provider struct {
	settings ProviderSettings
	logger   *zap.Logger

	once  sync.Once
	model *Model
	err   error
}

// NewProvider creates a new model provider. Nothing is loaded until the
// first call to Classifier.
func NewProvider(settings ProviderSettings, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.ModelPath == "" {
		settings.ModelPath = DefaultModelPath
	}
	return &Provider{
		settings: settings,
		logger:   logger,
	}
}

// Classifier returns the shared model. Concurrent first callers wait on a
// single load; a failed initialization is not retried.
func (p *Provider) Classifier() (core.Classifier, error) {
	p.once.Do(p.init)
	if p.err != nil {
		return nil, p.err
	}
	return p.model, nil
}

// Model returns the shared model with its concrete type
func (p *Provider) Model() (*Model, error) {
	p.once.Do(p.init)
	return p.model, p.err
}

func (p *Provider) init() {
	model, err := Load(p.settings.ModelPath)
	if err == nil {
		p.logger.Info("Loaded classifier",
			zap.String("path", p.settings.ModelPath),
			zap.Int("features", model.Vectorizer.Dimensions()),
			zap.Int("trees", len(model.Booster.Trees)))
		p.model = model
		return
	}

	if !p.settings.AutoTrain {
		p.err = fmt.Errorf("%w: %w", core.ErrClassifierUnavailable, err)
		return
	}

	p.logger.Warn("Classifier artifact unusable, training a new one",
		zap.String("path", p.settings.ModelPath),
		zap.Error(err))

	model, err = p.train()
	if err != nil {
		p.err = fmt.Errorf("%w: %w", core.ErrClassifierUnavailable, err)
		return
	}
	p.model = model
}

func (p *Provider) train() (*Model, error) {
	corpus, err := p.corpus()
	if err != nil {
		return nil, err
	}

	model, _, err := NewTrainer(p.settings.Trainer, p.logger).Train(corpus)
	if err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}

	// A model that cannot be persisted is still usable for this process
	if err := model.Save(p.settings.ModelPath); err != nil {
		p.logger.Error("Failed to save trained classifier",
			zap.String("path", p.settings.ModelPath),
			zap.Error(err))
	}
	return model, nil
}

func (p *Provider) corpus() (*Corpus, error) {
	if p.settings.CorpusPath == "" {
		return DefaultCorpus()
	}
	return LoadCorpus(p.settings.CorpusPath)
}
