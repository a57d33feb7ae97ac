package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/phish-guard/internal/utils"
)

// FormatVersion is bumped whenever the artifact layout changes
const FormatVersion = 1

// ErrInvalidModel is returned when an artifact cannot be used for scoring
var ErrInvalidModel = errors.New("invalid classifier artifact")

// Model is the frozen TF-IDF + gradient-boosted trees pipeline.
// It is never mutated after training or loading.
type Model struct {
	Version    int         `json:"version"`
	TrainedAt  time.Time   `json:"trained_at"`
	Samples    int         `json:"samples"`
	Vectorizer *Vectorizer `json:"vectorizer"`
	Booster    *Booster    `json:"booster"`
}

// PredictProbability returns the phishing probability of the text
func (m *Model) PredictProbability(text string) float64 {
	return m.Booster.Probability(m.Vectorizer.Transform(text))
}

// Score composes subject and body and returns the phishing probability
func (m *Model) Score(subject, body string) float64 {
	return m.PredictProbability(utils.ComposeText(subject, body))
}

// Save writes the model to path as JSON, creating parent directories
func (m *Model) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	// Write then rename so a concurrent reader never sees a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move model into place: %w", err)
	}
	return nil
}

// Load reads and validates a model artifact
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	m.Vectorizer.buildIndex()
	return &m, nil
}

func (m *Model) validate() error {
	if m.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidModel, m.Version)
	}
	if m.Vectorizer == nil || m.Booster == nil {
		return fmt.Errorf("%w: missing vectorizer or booster", ErrInvalidModel)
	}
	if len(m.Vectorizer.Vocabulary) != len(m.Vectorizer.IDF) {
		return fmt.Errorf("%w: vocabulary and idf length differ", ErrInvalidModel)
	}
	for i, idf := range m.Vectorizer.IDF {
		if !finite(idf) {
			return fmt.Errorf("%w: idf %d is not finite", ErrInvalidModel, i)
		}
	}
	if !finite(m.Booster.InitScore) {
		return fmt.Errorf("%w: init score is not finite", ErrInvalidModel)
	}

	dims := len(m.Vectorizer.Vocabulary)
	for t, tree := range m.Booster.Trees {
		for i, n := range tree.Nodes {
			if n.Leaf {
				if !finite(n.Value) {
					return fmt.Errorf("%w: tree %d leaf %d is not finite", ErrInvalidModel, t, i)
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= dims {
				return fmt.Errorf("%w: tree %d node %d has feature %d outside [0,%d)", ErrInvalidModel, t, i, n.Feature, dims)
			}
			if !finite(n.Threshold) {
				return fmt.Errorf("%w: tree %d node %d threshold is not finite", ErrInvalidModel, t, i)
			}
			if n.Left <= i || n.Right <= i || n.Left >= len(tree.Nodes) || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("%w: tree %d node %d has bad children", ErrInvalidModel, t, i)
			}
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
