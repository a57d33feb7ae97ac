package factory

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/core"
)

// Backend is a parsed provider:model identifier
type Backend struct {
	Provider string
	Model    string
}

func (b Backend) String() string {
	return b.Provider + ":" + b.Model
}

// ParseBackend parses a provider:model identifier
func ParseBackend(spec string) (Backend, error) {
	provider, model, ok := strings.Cut(strings.TrimSpace(spec), ":")
	provider = strings.ToLower(strings.TrimSpace(provider))
	model = strings.TrimSpace(model)
	if !ok || provider == "" || model == "" {
		return Backend{}, fmt.Errorf("invalid backend %q, expected provider:model", spec)
	}

	switch provider {
	case "gemini", "openai", "bedrock":
		return Backend{Provider: provider, Model: model}, nil
	default:
		return Backend{}, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

type clientCreator interface {
	CreateLLMClient(model string) (core.LLMClient, error)
}

// LLMFactory creates the ordered list of LLM clients behind the explainer
type LLMFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	creators map[string]func() clientCreator
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	jsonOutput := !strings.EqualFold(cfg.GetString("explainer.mode"), "text")
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
		creators: map[string]func() clientCreator{
			"gemini":  func() clientCreator { return NewGeminiFactory(cfg, logger, jsonOutput) },
			"openai":  func() clientCreator { return NewOpenAIFactory(cfg, logger, jsonOutput) },
			"bedrock": func() clientCreator { return NewBedrockFactory(cfg, logger) },
		},
	}
}

// CreateLLMClients creates a client for every configured backend, in order.
// Backends that cannot be created (bad spec, missing key) are skipped with a
// warning so the remaining ones still serve.
func (f *LLMFactory) CreateLLMClients() []core.LLMClient {
	specs := f.cfg.GetStringSlice("explainer.backends")
	built := make(map[string]clientCreator)

	var clients []core.LLMClient
	for _, spec := range specs {
		backend, err := ParseBackend(spec)
		if err != nil {
			f.logger.Warn("Skipping explainer backend", zap.String("backend", spec), zap.Error(err))
			continue
		}

		creator, ok := built[backend.Provider]
		if !ok {
			creator = f.creators[backend.Provider]()
			built[backend.Provider] = creator
		}

		client, err := creator.CreateLLMClient(backend.Model)
		if err != nil {
			f.logger.Warn("Skipping explainer backend", zap.String("backend", backend.String()), zap.Error(err))
			continue
		}
		clients = append(clients, client)
	}

	return clients
}
