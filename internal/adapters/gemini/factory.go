package gemini

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
)

// Factory creates GeminiClient instances for any Gemini model
type Factory struct {
	apiKey      string
	maxTokens   int
	temperature float32
	topP        float32
	jsonOutput  bool
	logger      *zap.Logger
}

// NewFactory creates a new factory for GeminiClient instances
func NewFactory(
	apiKey string,
	maxTokens int,
	temperature float32,
	topP float32,
	jsonOutput bool,
	logger *zap.Logger,
) *Factory {
	return &Factory{
		apiKey:      apiKey,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		jsonOutput:  jsonOutput,
		logger:      logger,
	}
}

// CreateLLMClient creates a GeminiClient for the named model
func (f *Factory) CreateLLMClient(modelName string) (core.LLMClient, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	return NewGeminiClient(
		f.apiKey,
		modelName,
		f.maxTokens,
		f.temperature,
		f.topP,
		f.jsonOutput,
		f.logger,
	)
}
