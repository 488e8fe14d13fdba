package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"namestat/internal/model/naming"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, OutputConsole, cfg.App.Output)
	assert.Equal(t, "verb", cfg.App.Words)
	assert.Equal(t, "func", cfg.App.Names)
	assert.Equal(t, 200, cfg.App.TopSize)
	assert.Equal(t, 100, cfg.App.MaxFiles)
	assert.Equal(t, "ascending", cfg.App.Order)
	assert.Equal(t, []string{"python"}, cfg.App.Languages)
	assert.Equal(t, ProviderLexicon, cfg.Tagger.Provider)
	assert.Equal(t, 2*time.Second, cfg.Tagger.Timeout())
	assert.Equal(t, "localhost:8081", cfg.Mcp.GetAddress())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(filepath.Join(dir, "app.yaml"), filepath.Join(dir, "source.yaml"))
	require.NoError(t, err)
	assert.Equal(t, OutputConsole, cfg.App.Output)
	assert.Empty(t, cfg.Source.Repositories)
}

func TestLoadConfig_ReadsBothFiles(t *testing.T) {
	dir := t.TempDir()
	appPath := filepath.Join(dir, "app.yaml")
	sourcePath := filepath.Join(dir, "source.yaml")

	require.NoError(t, os.WriteFile(appPath, []byte(`
app:
  output: json
  words: noun
  names: vars
  top_size: 25
  languages: [python, go]
tagger:
  provider: remote
  url: http://localhost:9090
  timeout_ms: 500
source:
  repositories:
    - name: local
      path: ./src
`), 0o644))
	require.NoError(t, os.WriteFile(sourcePath, []byte(`
repositories:
  - name: flask
    url: https://github.com/pallets/flask.git
    path: ./flask
  - name: old
    path: ./old
    disabled: true
`), 0o644))

	cfg, err := LoadConfig(appPath, sourcePath)
	require.NoError(t, err)

	assert.Equal(t, OutputJSON, cfg.App.Output)
	assert.Equal(t, 25, cfg.App.TopSize)
	assert.Equal(t, []string{"python", "go"}, cfg.App.Languages)
	assert.Equal(t, 500*time.Millisecond, cfg.Tagger.Timeout())
	require.Len(t, cfg.Source.Repositories, 3)

	assert.Equal(t, "./flask", cfg.Source.Repositories[1].Path)
	assert.True(t, cfg.Source.Repositories[2].Disabled)

	category, err := cfg.App.Category()
	require.NoError(t, err)
	assert.Equal(t, naming.Noun, category)

	kind, err := cfg.App.Kind()
	require.NoError(t, err)
	assert.Equal(t, naming.AttributeName, kind)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	appPath := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(appPath, []byte("app:\n  colour: blue\n"), 0o644))

	_, err := LoadConfig(appPath, "")
	assert.ErrorIs(t, err, naming.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad output", func(c *Config) { c.App.Output = "xml" }},
		{"bad words", func(c *Config) { c.App.Words = "adverb" }},
		{"bad names", func(c *Config) { c.App.Names = "classes" }},
		{"zero top", func(c *Config) { c.App.TopSize = -1 }},
		{"bad order", func(c *Config) { c.App.Order = "shuffled" }},
		{"bad provider", func(c *Config) { c.Tagger.Provider = "oracle" }},
		{"remote without url", func(c *Config) { c.Tagger.Provider = ProviderRemote }},
		{"gemini without key", func(c *Config) { c.Tagger.Provider = ProviderGemini; c.Gemini.APIKey = "" }},
		{"repo without location", func(c *Config) { c.Source.Repositories = []Repository{{Name: "x"}} }},
		{"repo url without .git", func(c *Config) {
			c.Source.Repositories = []Repository{{Name: "x", URL: "https://example.com/x", Path: "x"}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), naming.ErrConfiguration)
		})
	}
}

func TestRepositoryDisplayName(t *testing.T) {
	assert.Equal(t, "named", (&Repository{Name: "named", Path: "p"}).DisplayName())
	assert.Equal(t, "p", (&Repository{Path: "p"}).DisplayName())
	assert.Equal(t, "u.git", (&Repository{URL: "u.git"}).DisplayName())
}
