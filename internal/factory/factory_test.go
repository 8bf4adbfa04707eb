package factory

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iTschetter/PhishingDetection/internal/adapters/cache"
	"github.com/iTschetter/PhishingDetection/internal/adapters/render"
	"github.com/iTschetter/PhishingDetection/internal/config"
)

func newConfig() *config.Config {
	return config.NewFromViper(config.NewEmptyViper())
}

func TestCreateTextGenerator(t *testing.T) {
	cfg := newConfig()
	cfg.Set("llm.provider", "openai")
	cfg.Set("openai.api_key", "sk-test")

	gen, err := NewLLMFactory(cfg, zaptest.NewLogger(t)).CreateTextGenerator()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", gen.Model())
}

func TestCreateTextGenerator_UnknownProvider(t *testing.T) {
	cfg := newConfig()
	cfg.Set("llm.provider", "carrier-pigeon")

	_, err := NewLLMFactory(cfg, zaptest.NewLogger(t)).CreateTextGenerator()
	assert.ErrorContains(t, err, "unsupported LLM provider")
}

func TestCreateVerdictCache_Disabled(t *testing.T) {
	c, err := NewCacheFactory(newConfig(), zaptest.NewLogger(t)).CreateVerdictCache(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCreateVerdictCache_Backends(t *testing.T) {
	cfg := newConfig()
	cfg.Set("cache.enabled", true)
	cfg.Set("cache.type", "memory")
	f := NewCacheFactory(cfg, zaptest.NewLogger(t))

	c, err := f.CreateVerdictCache(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, c)
	c.Stop()

	cfg.Set("cache.type", "sqlite")
	cfg.Set("cache.sqlite_path", filepath.Join(t.TempDir(), "nested", "verdicts.db"))
	c, err = f.CreateVerdictCache(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &cache.SQLiteCache{}, c)
	c.Stop()

	cfg.Set("cache.type", "floppy")
	_, err = f.CreateVerdictCache(context.Background())
	assert.ErrorContains(t, err, "unsupported cache type")
}

func TestAnalyzerConfig(t *testing.T) {
	cfg := newConfig()
	cfg.Set("cache.enabled", true)
	cfg.Set("cache.ttl", "2h")

	ac, err := NewCacheFactory(cfg, zaptest.NewLogger(t)).AnalyzerConfig()
	require.NoError(t, err)
	assert.True(t, ac.CacheEnabled)
	assert.Equal(t, 2*time.Hour, ac.CacheTTL)
}

func TestCreatePublisher(t *testing.T) {
	cfg := newConfig()
	f := NewPublisherFactory(cfg, zaptest.NewLogger(t))
	var buf bytes.Buffer

	p, err := f.CreatePublisher(&buf)
	require.NoError(t, err)
	assert.IsType(t, &render.TerminalPublisher{}, p)

	cfg.Set("output.format", "json")
	p, err = f.CreatePublisher(&buf)
	require.NoError(t, err)
	assert.IsType(t, &render.JSONPublisher{}, p)

	cfg.Set("output.format", "xml")
	_, err = f.CreatePublisher(&buf)
	assert.Error(t, err)
}
