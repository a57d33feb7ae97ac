package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/logging"
)

// CLIFlags contains the command line flags shared by the one-shot commands
type CLIFlags struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool

	// Overrides applied on top of the configuration when non-empty
	ModelPath  string
	CorpusPath string
	Backends   []string
	Mode       string
	NoCache    bool
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration with flag overrides
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Info("Loaded configuration from file", zap.String("file", used))
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// A private registry keeps one-shot runs from touching global state
	if err := container.Provide(prometheus.NewRegistry); err != nil {
		return nil, err
	}

	if err := provideShared(container); err != nil {
		return nil, err
	}
	return container, nil
}

// applyFlags copies explicit command line overrides into the configuration
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	if flags.ModelPath != "" {
		cfg.Set("classifier.model_path", flags.ModelPath)
	}
	if flags.CorpusPath != "" {
		cfg.Set("classifier.corpus_path", flags.CorpusPath)
	}
	if len(flags.Backends) > 0 {
		cfg.Set("explainer.backends", flags.Backends)
	}
	if flags.Mode != "" {
		cfg.Set("explainer.mode", flags.Mode)
	}
	if flags.NoCache {
		cfg.Set("cache.enabled", false)
	}
}
