package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/adapters/openai"
	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/core"
)

// OpenAIFactory creates OpenAI LLM clients
type OpenAIFactory struct {
	adapter *openai.Factory
}

// NewOpenAIFactory creates a new OpenAI factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger, jsonOutput bool) *OpenAIFactory {
	openaiCfg := cfg.GetOpenAI()
	return &OpenAIFactory{
		adapter: openai.NewFactory(
			openaiCfg.APIKey,
			openaiCfg.BaseURL,
			openaiCfg.MaxTokens,
			openaiCfg.Temperature,
			openaiCfg.TopP,
			jsonOutput,
			logger,
		),
	}
}

// CreateLLMClient creates an OpenAI LLM client for the model
func (f *OpenAIFactory) CreateLLMClient(model string) (core.LLMClient, error) {
	return f.adapter.CreateLLMClient(model)
}
