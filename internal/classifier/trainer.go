package classifier

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/utils"
)

// TrainerSettings configures model training
type TrainerSettings struct {
	MaxFeatures int           `mapstructure:"max_features"`
	Booster     BoosterParams `mapstructure:"booster"`
}

// TrainingReport summarizes a training run, evaluated on the training set
type TrainingReport struct {
	Samples   int     `json:"samples"`
	Features  int     `json:"features"`
	Trees     int     `json:"trees"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

// String formats the report for the CLI
func (r TrainingReport) String() string {
	return fmt.Sprintf("samples=%d features=%d trees=%d accuracy=%.4f precision=%.4f recall=%.4f",
		r.Samples, r.Features, r.Trees, r.Accuracy, r.Precision, r.Recall)
}

// Trainer fits models from labeled corpora
type Trainer struct {
	settings TrainerSettings
	logger   *zap.Logger
}

// NewTrainer creates a new trainer
func NewTrainer(settings TrainerSettings, logger *zap.Logger) *Trainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{
		settings: settings,
		logger:   logger,
	}
}

// Train fits a model on the corpus and evaluates it on the same data
func (t *Trainer) Train(corpus *Corpus) (*Model, *TrainingReport, error) {
	if corpus == nil {
		return nil, nil, fmt.Errorf("no training corpus")
	}
	if err := corpus.Validate(); err != nil {
		return nil, nil, err
	}

	docs := make([]string, len(corpus.Samples))
	labels := make([]float64, len(corpus.Samples))
	for i, s := range corpus.Samples {
		docs[i] = utils.CleanText(s.Text)
		labels[i] = float64(s.Label)
	}

	vectorizer := FitVectorizer(docs, t.settings.MaxFeatures)
	features := make([][]float64, len(docs))
	for i, doc := range docs {
		features[i] = vectorizer.Transform(doc)
	}

	booster := TrainBooster(features, labels, t.settings.Booster)
	model := &Model{
		Version:    FormatVersion,
		TrainedAt:  time.Now().UTC(),
		Samples:    len(docs),
		Vectorizer: vectorizer,
		Booster:    booster,
	}

	report := evaluate(model, corpus)
	report.Features = vectorizer.Dimensions()
	report.Trees = len(booster.Trees)

	t.logger.Info("Trained classifier",
		zap.Int("samples", report.Samples),
		zap.Int("features", report.Features),
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("precision", report.Precision),
		zap.Float64("recall", report.Recall))

	return model, report, nil
}

func evaluate(model *Model, corpus *Corpus) *TrainingReport {
	var tp, fp, tn, fn int
	for _, s := range corpus.Samples {
		predicted := model.PredictProbability(s.Text) > 0.5
		switch {
		case predicted && s.Label == 1:
			tp++
		case predicted && s.Label == 0:
			fp++
		case !predicted && s.Label == 0:
			tn++
		default:
			fn++
		}
	}

	report := &TrainingReport{Samples: len(corpus.Samples)}
	if report.Samples > 0 {
		report.Accuracy = float64(tp+tn) / float64(report.Samples)
	}
	if tp+fp > 0 {
		report.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		report.Recall = float64(tp) / float64(tp+fn)
	}
	return report
}
