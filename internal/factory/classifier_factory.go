package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/classifier"
	"github.com/mikey/phish-guard/internal/config"
)

// ClassifierFactory creates the model provider and trainer from configuration
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// TrainerSettings returns the configured training parameters
func (f *ClassifierFactory) TrainerSettings() classifier.TrainerSettings {
	c := f.cfg.GetClassifier()
	return classifier.TrainerSettings{
		MaxFeatures: c.MaxFeatures,
		Booster: classifier.BoosterParams{
			NumTrees:        c.NumTrees,
			LearningRate:    c.LearningRate,
			MaxDepth:        c.MaxDepth,
			MinChildSamples: c.MinChildSamples,
			Lambda:          c.Lambda,
		},
	}
}

// CreateProvider creates the lazily loaded model provider
func (f *ClassifierFactory) CreateProvider() *classifier.Provider {
	c := f.cfg.GetClassifier()
	return classifier.NewProvider(classifier.ProviderSettings{
		ModelPath:  c.ModelPath,
		AutoTrain:  c.AutoTrain,
		CorpusPath: c.CorpusPath,
		Trainer:    f.TrainerSettings(),
	}, f.logger)
}

// CreateTrainer creates a trainer for offline training
func (f *ClassifierFactory) CreateTrainer() *classifier.Trainer {
	return classifier.NewTrainer(f.TrainerSettings(), f.logger)
}
