package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/iTschetter/PhishingDetection/internal/adapters/bedrock"
	"github.com/iTschetter/PhishingDetection/internal/adapters/gemini"
	"github.com/iTschetter/PhishingDetection/internal/adapters/openai"
	"github.com/iTschetter/PhishingDetection/internal/config"
	"github.com/iTschetter/PhishingDetection/internal/core"
)

// LLMFactory creates text generators
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextGenerator creates the generator for the configured provider.
// The result may also implement io.Closer.
func (f *LLMFactory) CreateTextGenerator() (core.TextGenerator, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateClient()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger).CreateClient()
	case "openai":
		return openai.NewFactory(f.cfg, f.logger).CreateClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
