package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/adapters/gemini"
	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/core"
)

// GeminiFactory creates Gemini LLM clients
type GeminiFactory struct {
	adapter *gemini.Factory
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger, jsonOutput bool) *GeminiFactory {
	geminiCfg := cfg.GetGemini()
	return &GeminiFactory{
		adapter: gemini.NewFactory(
			geminiCfg.APIKey,
			geminiCfg.MaxTokens,
			geminiCfg.Temperature,
			geminiCfg.TopP,
			jsonOutput,
			logger,
		),
	}
}

// CreateLLMClient creates a Gemini LLM client for the model
func (f *GeminiFactory) CreateLLMClient(model string) (core.LLMClient, error) {
	return f.adapter.CreateLLMClient(model)
}
