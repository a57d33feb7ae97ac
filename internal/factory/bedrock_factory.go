package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/adapters/bedrock"
	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/core"
)

// BedrockFactory creates Bedrock LLM clients
type BedrockFactory struct {
	adapter *bedrock.Factory
}

// NewBedrockFactory creates a new Bedrock factory
func NewBedrockFactory(cfg *config.Config, logger *zap.Logger) *BedrockFactory {
	bedrockCfg := cfg.GetBedrock()
	return &BedrockFactory{
		adapter: bedrock.NewFactory(
			bedrockCfg.Region,
			bedrockCfg.MaxTokens,
			bedrockCfg.Temperature,
			bedrockCfg.TopP,
			logger,
		),
	}
}

// CreateLLMClient creates a Bedrock LLM client for the model ID
func (f *BedrockFactory) CreateLLMClient(modelID string) (core.LLMClient, error) {
	return f.adapter.CreateLLMClient(modelID)
}
