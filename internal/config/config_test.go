package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	assert.Equal(t, "gemini", cfg.GetLLM().Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.GetOpenAI().ModelName)
	assert.True(t, cfg.GetOpenAI().JSONMode)
	assert.InDelta(t, 0.1, cfg.GetBedrock().Temperature, 0.0001)

	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.False(t, cache.Enabled)
	assert.Equal(t, "memory", cache.Type)
	assert.Equal(t, 24*time.Hour, cache.TTL)
	assert.Equal(t, time.Hour, cache.CleanupFrequency)

	watch, err := cfg.GetWatch()
	require.NoError(t, err)
	assert.Equal(t, []string{".eml"}, watch.Extensions)
	assert.Equal(t, 250*time.Millisecond, watch.Debounce)

	assert.Equal(t, "text", cfg.GetOutput().Format)
}

func TestNew_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	content := `
llm:
  provider: openai
openai:
  model_name: gpt-4o
cache:
  enabled: true
  type: sqlite
  ttl: 2h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.GetLLM().Provider)
	assert.Equal(t, "gpt-4o", cfg.GetOpenAI().ModelName)
	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.True(t, cache.Enabled)
	assert.Equal(t, "sqlite", cache.Type)
	assert.Equal(t, 2*time.Hour, cache.TTL)
	// Unset keys keep their defaults
	assert.Equal(t, time.Hour, cache.CleanupFrequency)
}

func TestNew_MissingExplicitFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNew_Environment(t *testing.T) {
	t.Setenv("PHISH_ANALYZER_LLM_PROVIDER", "bedrock")
	t.Setenv("PHISH_ANALYZER_BEDROCK_REGION", "eu-west-1")

	cfg, err := New("")
	require.NoError(t, err)

	assert.Equal(t, "bedrock", cfg.GetLLM().Provider)
	assert.Equal(t, "eu-west-1", cfg.GetBedrock().Region)
}

func TestGetDuration_Invalid(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())
	cfg.Set("cache.ttl", "forever")

	_, err := cfg.GetCache()
	assert.ErrorContains(t, err, "cache.ttl")
}
