package openai

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
)

// Factory creates OpenAIClient instances for any OpenAI model
type Factory struct {
	apiKey      string
	baseURL     string
	maxTokens   int
	temperature float32
	topP        float32
	jsonOutput  bool
	logger      *zap.Logger
}

// NewFactory creates a new factory for OpenAIClient instances
func NewFactory(
	apiKey string,
	baseURL string,
	maxTokens int,
	temperature float32,
	topP float32,
	jsonOutput bool,
	logger *zap.Logger,
) *Factory {
	return &Factory{
		apiKey:      apiKey,
		baseURL:     baseURL,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		jsonOutput:  jsonOutput,
		logger:      logger,
	}
}

// CreateLLMClient creates an OpenAIClient for the named model
func (f *Factory) CreateLLMClient(modelName string) (core.LLMClient, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return NewOpenAIClient(
		f.apiKey,
		f.baseURL,
		modelName,
		f.maxTokens,
		f.temperature,
		f.topP,
		f.jsonOutput,
		f.logger,
	), nil
}
