package factory

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/iTschetter/PhishingDetection/internal/adapters/render"
	"github.com/iTschetter/PhishingDetection/internal/config"
	"github.com/iTschetter/PhishingDetection/internal/core"
	"github.com/iTschetter/PhishingDetection/internal/utils"
)

// PublisherFactory creates outcome publishers based on configuration
type PublisherFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewPublisherFactory creates a new publisher factory
func NewPublisherFactory(cfg *config.Config, logger *zap.Logger) *PublisherFactory {
	return &PublisherFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePublisher creates a publisher writing to w
func (f *PublisherFactory) CreatePublisher(w io.Writer) (core.Publisher, error) {
	outputCfg := f.cfg.GetOutput()

	switch outputCfg.Format {
	case "text":
		return render.NewTerminalPublisher(w, outputCfg.Color, utils.NewTextProcessor(f.logger)), nil
	case "json":
		return render.NewJSONPublisher(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", outputCfg.Format)
	}
}
