package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/core"
)

func TestBuildCLIContainer_ResolvesService(t *testing.T) {
	dir := t.TempDir()
	flags := &CLIFlags{
		ModelPath: filepath.Join(dir, "model.json"),
		NoCache:   true,
	}

	container, err := BuildCLIContainer(flags)
	require.NoError(t, err)

	err = container.Invoke(func(cfg *config.Config, service *core.PhishingService) {
		assert.Equal(t, flags.ModelPath, cfg.GetClassifier().ModelPath)
		assert.False(t, cfg.GetBool("cache.enabled"))
		assert.False(t, service.HasExplainer(), "default Gemini backends need an API key")

		// auto_train is on by default, so the first analysis trains a model
		report, err := service.Analyze(context.Background(), core.EmailCandidate{
			Sender:  "security@paypa1.com",
			Subject: "Urgent",
			Body:    "Your PayPal account has been restricted. Click here to verify now.",
		}, core.AnalyzeOptions{})
		require.NoError(t, err)
		require.NotNil(t, report.Verdict.TypoAlert)
		assert.True(t, report.Escalated)
	})
	require.NoError(t, err)
	assert.FileExists(t, flags.ModelPath)
}

func TestApplyFlags(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	applyFlags(cfg, &CLIFlags{
		CorpusPath: "corpus.yaml",
		Backends:   []string{"openai:gpt-4o-mini"},
		Mode:       "text",
	})

	assert.Equal(t, "corpus.yaml", cfg.GetClassifier().CorpusPath)
	assert.Equal(t, []string{"openai:gpt-4o-mini"}, cfg.GetStringSlice("explainer.backends"))
	assert.Equal(t, "text", cfg.GetString("explainer.mode"))
	assert.True(t, cfg.GetBool("cache.enabled"))
}
