package di

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/iTschetter/PhishingDetection/internal/config"
	"github.com/iTschetter/PhishingDetection/internal/core"
	"github.com/iTschetter/PhishingDetection/internal/factory"
	"github.com/iTschetter/PhishingDetection/internal/logging"
	"github.com/iTschetter/PhishingDetection/internal/metrics"
)

// Options are command line overrides applied on top of the configuration
type Options struct {
	ConfigFile string
	Provider   string
	Output     string
	Verbose    bool
	JSONLog    bool
	Stdout     io.Writer
}

// BuildContainer creates and configures a dependency injection container.
// The caller provides the core.ItemSource for its mode before invoking the
// analyzer.
func BuildContainer(opts Options) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return loadConfig(opts)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewPublisherFactory); err != nil {
		return nil, err
	}

	// Register text generator
	if err := container.Provide(func(f *factory.LLMFactory) (core.TextGenerator, error) {
		return f.CreateTextGenerator()
	}); err != nil {
		return nil, err
	}

	// Register verdict cache; nil when caching is disabled
	if err := container.Provide(func(f *factory.CacheFactory) (factory.StoppableCache, error) {
		return f.CreateVerdictCache(context.Background())
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (core.AnalyzerConfig, error) {
		return f.AnalyzerConfig()
	}); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return reg
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(reg *prometheus.Registry) (*metrics.Recorder, error) {
		return metrics.NewRecorder(reg)
	}); err != nil {
		return nil, err
	}

	// Register publisher
	if err := container.Provide(func(f *factory.PublisherFactory) (core.Publisher, error) {
		return f.CreatePublisher(opts.Stdout)
	}); err != nil {
		return nil, err
	}

	// Register analyzer
	if err := container.Provide(func(
		source core.ItemSource,
		generator core.TextGenerator,
		publisher core.Publisher,
		verdictCache factory.StoppableCache,
		recorder *metrics.Recorder,
		logger *zap.Logger,
		cfg core.AnalyzerConfig,
	) *core.Analyzer {
		var c core.VerdictCache
		if verdictCache != nil {
			c = verdictCache
		}
		return core.NewAnalyzer(source, generator, publisher, c, recorder, logger, cfg)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// loadConfig reads the configuration and applies the command line overrides
func loadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.New(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if opts.Provider != "" {
		cfg.Set("llm.provider", opts.Provider)
	}
	if opts.Output != "" {
		cfg.Set("output.format", opts.Output)
	}
	if opts.Verbose {
		cfg.Set("logging.level", "debug")
	}
	if opts.JSONLog {
		cfg.Set("logging.format", "json")
	}
	return cfg, nil
}
