package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, 0.9, cfg.Cache.HitThreshold)
	assert.Equal(t, 5, cfg.AI.TopFacts)
	assert.Equal(t, []string{"gemini", "deepseek", "openai", "anthropic"}, cfg.AI.Order)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hellosleep.yaml")
	body := `
server:
  port: "9090"
cache:
  backend: memory
  hitThreshold: 0.95
  nearThreshold: 0.85
ai:
  order: [anthropic]
  timeoutMs: 5000
  topFacts: 3
  providers:
    anthropic:
      name: anthropic
      kind: anthropic
      baseUrl: http://localhost:1
      model: test-model
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("PORT", "7070")
	t.Setenv("ANTHROPIC_API_KEY", "k")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port, "env wins over yaml")
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 0.95, cfg.Cache.HitThreshold)
	require.Len(t, cfg.AI.Active(), 1)
	assert.Equal(t, "test-model", cfg.AI.Active()[0].Model)
	assert.Equal(t, "k", cfg.AI.Active()[0].APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Cache.Backend = "etcd" }},
		{"file without path", func(c *Config) { c.Cache.Path = "" }},
		{"hit threshold above one", func(c *Config) { c.Cache.HitThreshold = 1.5 }},
		{"near above hit", func(c *Config) { c.Cache.NearThreshold = 0.95 }},
		{"unknown provider in order", func(c *Config) { c.AI.Order = []string{"mystery"} }},
		{"bad cleanup age", func(c *Config) { c.Cache.CleanupMaxAge = "a month" }},
		{"negative cleanup age", func(c *Config) { c.Cache.CleanupMaxAge = "-1h" }},
		{"zero timeout", func(c *Config) { c.AI.TimeoutMS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"openai", "gemini"}, splitList(" OpenAI, ,gemini "))
}
