package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeOptions_Candidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0644))

	opts := &analyzeOptions{sender: "a@b.com", subject: "s", body: "inline"}
	c, err := opts.candidate(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "inline", c.Body)

	opts.bodyFile = path
	c, err = opts.candidate(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "from file", c.Body)

	opts.bodyFile = "-"
	c, err = opts.candidate(strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", c.Body)

	opts.bodyFile = filepath.Join(dir, "missing.txt")
	_, err = opts.candidate(strings.NewReader(""))
	assert.Error(t, err)
}

func TestTrainThenAnalyze(t *testing.T) {
	model := filepath.Join(t.TempDir(), "model.json")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"train", "--model", model})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Corpus: 20 phishing, 20 legitimate")
	assert.Contains(t, out.String(), "Model saved to "+model)
	assert.FileExists(t, model)

	root = newRootCmd()
	root.SetArgs([]string{"analyze", "--model", model, "--no-cache", "--no-explain",
		"--sender", "alerts@g00gle.com", "--body", "Verify your account"})
	require.NoError(t, root.Execute())
}

func TestAnalyze_RequiresSenderAndBody(t *testing.T) {
	model := filepath.Join(t.TempDir(), "model.json")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"analyze", "--model", model, "--no-cache", "--subject", "only a subject"})
	assert.Error(t, root.Execute())
}
