package classifier

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/default_corpus.yaml
var defaultCorpusYAML []byte

// Sample is one labeled training text; Label is 1 for phishing, 0 otherwise
type Sample struct {
	Text  string `yaml:"text"`
	Label int    `yaml:"label"`
}

// Corpus is a labeled training set
type Corpus struct {
	Samples []Sample `yaml:"samples"`
}

// DefaultCorpus returns the built-in training set
func DefaultCorpus() (*Corpus, error) {
	return parseCorpus(defaultCorpusYAML)
}

// LoadCorpus reads a YAML training set from path
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return parseCorpus(data)
}

func parseCorpus(data []byte) (*Corpus, error) {
	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the corpus can train a binary classifier
func (c *Corpus) Validate() error {
	var positives, negatives int
	for i, s := range c.Samples {
		switch s.Label {
		case 1:
			positives++
		case 0:
			negatives++
		default:
			return fmt.Errorf("sample %d: label must be 0 or 1, got %d", i, s.Label)
		}
	}
	if positives == 0 || negatives == 0 {
		return fmt.Errorf("corpus needs both classes, got %d phishing and %d legitimate", positives, negatives)
	}
	return nil
}

// Counts returns the number of phishing and legitimate samples
func (c *Corpus) Counts() (phishing, legitimate int) {
	for _, s := range c.Samples {
		if s.Label == 1 {
			phishing++
		} else {
			legitimate++
		}
	}
	return phishing, legitimate
}
