package bedrock

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
)

// Factory creates Bedrock clients sharing one AWS runtime client
type Factory struct {
	region      string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger

	once    sync.Once
	runtime *bedrockruntime.Client
	err     error
}

// NewFactory creates a new Bedrock factory
func NewFactory(region string, maxTokens int, temperature float32, topP float32, logger *zap.Logger) *Factory {
	return &Factory{
		region:      region,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// CreateLLMClient creates a Bedrock client for the given model ID
func (f *Factory) CreateLLMClient(modelID string) (core.LLMClient, error) {
	f.once.Do(func() {
		awsCfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(f.region))
		if err != nil {
			f.err = fmt.Errorf("failed to load AWS configuration: %w", err)
			return
		}
		f.runtime = bedrockruntime.NewFromConfig(awsCfg)
	})
	if f.err != nil {
		return nil, f.err
	}

	return NewBedrockClient(
		f.runtime,
		modelID,
		f.maxTokens,
		f.temperature,
		f.topP,
		f.logger,
	), nil
}
