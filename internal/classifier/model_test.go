package classifier

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
)

func trainDefault(t *testing.T) (*Model, *TrainingReport) {
	t.Helper()
	corpus, err := DefaultCorpus()
	require.NoError(t, err)

	model, report, err := NewTrainer(TrainerSettings{}, zap.NewNop()).Train(corpus)
	require.NoError(t, err)
	return model, report
}

func TestDefaultCorpus(t *testing.T) {
	corpus, err := DefaultCorpus()
	require.NoError(t, err)

	phishing, legitimate := corpus.Counts()
	assert.Equal(t, 20, phishing)
	assert.Equal(t, 20, legitimate)
}

func TestLoadCorpus_Invalid(t *testing.T) {
	dir := t.TempDir()

	oneClass := filepath.Join(dir, "one.yaml")
	require.NoError(t, os.WriteFile(oneClass, []byte("samples:\n  - {label: 1, text: \"click here\"}\n"), 0644))
	_, err := LoadCorpus(oneClass)
	assert.Error(t, err)

	badLabel := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badLabel, []byte("samples:\n  - {label: 2, text: \"x\"}\n  - {label: 0, text: \"y\"}\n"), 0644))
	_, err = LoadCorpus(badLabel)
	assert.Error(t, err)

	_, err = LoadCorpus(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestTrainer_DefaultCorpus(t *testing.T) {
	model, report := trainDefault(t)

	assert.Equal(t, 40, report.Samples)
	assert.Equal(t, 100, report.Trees)
	assert.Greater(t, report.Features, 0)
	assert.GreaterOrEqual(t, report.Accuracy, 0.7)
	assert.Contains(t, report.String(), "accuracy=")

	for _, text := range []string{"", "Meeting agenda", "URGENT verify your account now"} {
		p := model.PredictProbability(text)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		assert.Equal(t, p, model.PredictProbability(text), "prediction must be deterministic")
	}
}

func TestModel_ScoreComposesAndCleans(t *testing.T) {
	model, _ := trainDefault(t)
	assert.Equal(t,
		model.PredictProbability("urgent: verify your account"),
		model.Score("URGENT:", "  Verify   your\naccount "))
}

func TestModel_SaveLoad(t *testing.T) {
	model, _ := trainDefault(t)
	path := filepath.Join(t.TempDir(), "nested", "model.json")

	require.NoError(t, model.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)

	for _, text := range []string{"Your PayPal account has been restricted", "Photos from the weekend trip."} {
		assert.Equal(t, model.PredictProbability(text), loaded.PredictProbability(text))
	}
}

func TestLoad_RejectsInvalidArtifacts(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0644))
	_, err := Load(garbage)
	assert.ErrorIs(t, err, ErrInvalidModel)

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version": 99, "vectorizer": {}, "booster": {}}`), 0644))
	_, err = Load(future)
	assert.ErrorIs(t, err, ErrInvalidModel)

	cyclic := filepath.Join(dir, "cyclic.json")
	require.NoError(t, os.WriteFile(cyclic, []byte(`{"version": 1, "vectorizer": {"vocabulary": [], "idf": []},
		"booster": {"trees": [{"nodes": [{"leaf": false, "left": 0, "right": 0}]}]}}`), 0644))
	_, err = Load(cyclic)
	assert.ErrorIs(t, err, ErrInvalidModel)

	badFeatures := map[string]string{
		"negative": `{"version": 1, "vectorizer": {"vocabulary": ["verify"], "idf": [1.5]},
			"booster": {"trees": [{"nodes": [{"feature": -3, "left": 1, "right": 2}, {"leaf": true}, {"leaf": true}]}]}}`,
		"out of range": `{"version": 1, "vectorizer": {"vocabulary": ["verify"], "idf": [1.5]},
			"booster": {"trees": [{"nodes": [{"feature": 1, "left": 1, "right": 2}, {"leaf": true}, {"leaf": true}]}]}}`,
	}
	for name, artifact := range badFeatures {
		path := filepath.Join(dir, "feature.json")
		require.NoError(t, os.WriteFile(path, []byte(artifact), 0644))
		_, err = Load(path)
		assert.ErrorIs(t, err, ErrInvalidModel, name)
	}
}

func TestProvider_BadFeatureIndexIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 1, "vectorizer": {"vocabulary": ["verify"], "idf": [1.5]},
		"booster": {"trees": [{"nodes": [{"feature": -3, "left": 1, "right": 2}, {"leaf": true}, {"leaf": true}]}]}}`), 0644))

	p := NewProvider(ProviderSettings{ModelPath: path}, zap.NewNop())
	c, err := p.Classifier()
	assert.Nil(t, c)
	assert.ErrorIs(t, err, core.ErrClassifierUnavailable)
}

func TestProvider_MissingArtifactWithoutAutoTrain(t *testing.T) {
	p := NewProvider(ProviderSettings{ModelPath: filepath.Join(t.TempDir(), "none.json")}, zap.NewNop())

	c, err := p.Classifier()
	assert.Nil(t, c)
	assert.ErrorIs(t, err, core.ErrClassifierUnavailable)

	// The failure is sticky
	_, err = p.Classifier()
	assert.ErrorIs(t, err, core.ErrClassifierUnavailable)
}

func TestProvider_AutoTrainPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	p := NewProvider(ProviderSettings{ModelPath: path, AutoTrain: true}, zap.NewNop())

	var wg sync.WaitGroup
	results := make([]core.Classifier, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := p.Classifier()
			assert.NoError(t, err)
			results[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range results {
		assert.Same(t, results[0], c)
	}
	assert.FileExists(t, path)

	reloaded, err := NewProvider(ProviderSettings{ModelPath: path}, zap.NewNop()).Model()
	require.NoError(t, err)
	assert.Equal(t, results[0].PredictProbability("verify now"), reloaded.PredictProbability("verify now"))
}

func TestProvider_CorruptArtifactRetrains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("corrupt"), 0644))

	model, err := NewProvider(ProviderSettings{ModelPath: path, AutoTrain: true}, zap.NewNop()).Model()
	require.NoError(t, err)
	require.NotNil(t, model)

	_, err = Load(path)
	assert.NoError(t, err)
}

func TestProvider_BadCorpus(t *testing.T) {
	dir := t.TempDir()
	p := NewProvider(ProviderSettings{
		ModelPath:  filepath.Join(dir, "model.json"),
		AutoTrain:  true,
		CorpusPath: filepath.Join(dir, "missing.yaml"),
	}, zap.NewNop())

	_, err := p.Classifier()
	assert.ErrorIs(t, err, core.ErrClassifierUnavailable)
}
