package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iTschetter/PhishingDetection/internal/adapters/source"
	"github.com/iTschetter/PhishingDetection/internal/config"
	"github.com/iTschetter/PhishingDetection/internal/core"
	"github.com/iTschetter/PhishingDetection/internal/di"
	"github.com/iTschetter/PhishingDetection/internal/factory"
	"github.com/iTschetter/PhishingDetection/internal/server"
	"github.com/iTschetter/PhishingDetection/internal/watch"
)

var opts di.Options

func main() {
	rootCmd := &cobra.Command{
		Use:   "phish-analyzer",
		Short: "Ask a language model whether an email is phishing",
		Long: `phish-analyzer sends an email to a language model and reports a risk
tier, the suspicious elements the model found, and its reasoning.

Providers: gemini, openai, bedrock.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default searches /etc/phish-analyzer, $HOME/.phish-analyzer, ./configs, .)")
	rootCmd.PersistentFlags().StringVar(&opts.Provider, "provider", "", "LLM provider (gemini, openai, bedrock)")
	rootCmd.PersistentFlags().StringVar(&opts.Output, "output", "", "output format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.JSONLog, "json-log", false, "write logs as JSON")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(watchCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze one message file, or stdin when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 && args[0] != "-" {
				path = args[0]
			}
			return runAnalyze(cmd.Context(), path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Analyze each message that lands in a directory",
		Long: `Watch a directory and analyze the newest message whenever one is created
or rewritten. Only one analysis runs at a time; changes that arrive
mid-run supersede it. When metrics.address is set, an HTTP server
exposes /metrics, /status and POST /analyze for a manual re-run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runWatch(cmd.Context(), dir, cmd.OutOrStdout())
		},
	}
}

func runAnalyze(ctx context.Context, path string, stdin io.Reader, stdout io.Writer) error {
	var src core.ItemSource
	if path != "" {
		src = source.NewFileSource(path)
	} else {
		s, err := source.NewReaderSource("stdin", stdin)
		if err != nil {
			return err
		}
		src = s
	}

	container, err := buildContainer(stdout, src)
	if err != nil {
		return err
	}

	return container.Invoke(func(
		analyzer *core.Analyzer,
		logger *zap.Logger,
		generator core.TextGenerator,
		verdictCache factory.StoppableCache,
	) error {
		defer logger.Sync()
		defer release(logger, generator, verdictCache)

		outcome, _ := analyzer.Analyze(ctx, core.TriggerManual)
		if outcome.Kind != core.OutcomeVerdict {
			return fmt.Errorf("analysis failed: %s", outcome.Message)
		}
		return nil
	})
}

func runWatch(ctx context.Context, dir string, stdout io.Writer) error {
	dirSource := source.NewDirectorySource()

	container, err := buildContainer(stdout, dirSource)
	if err != nil {
		return err
	}

	return container.Invoke(func(
		cfg *config.Config,
		analyzer *core.Analyzer,
		logger *zap.Logger,
		generator core.TextGenerator,
		verdictCache factory.StoppableCache,
		reg *prometheus.Registry,
	) error {
		defer logger.Sync()
		defer release(logger, generator, verdictCache)

		watchCfg, err := cfg.GetWatch()
		if err != nil {
			return fmt.Errorf("invalid watch configuration: %w", err)
		}
		if dir != "" {
			watchCfg.Dir = dir
		}

		g, ctx := errgroup.WithContext(ctx)

		watcher := watch.NewWatcher(watchCfg.Dir, watchCfg.Extensions, watchCfg.Debounce, dirSource, analyzer, logger)
		g.Go(func() error {
			return watcher.Run(ctx)
		})

		if addr := cfg.GetString("metrics.address"); addr != "" {
			srv := server.New(addr, analyzer, reg, logger)
			g.Go(func() error {
				return srv.Run(ctx)
			})
		}

		return g.Wait()
	})
}

func buildContainer(stdout io.Writer, src core.ItemSource) (*dig.Container, error) {
	o := opts
	o.Stdout = stdout

	container, err := di.BuildContainer(o)
	if err != nil {
		return nil, fmt.Errorf("failed to build container: %w", err)
	}
	if err := container.Provide(func() core.ItemSource { return src }); err != nil {
		return nil, fmt.Errorf("failed to register item source: %w", err)
	}
	return container, nil
}

// release closes the generator and cache if they hold resources
func release(logger *zap.Logger, generator core.TextGenerator, verdictCache factory.StoppableCache) {
	if closer, ok := generator.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close LLM client", zap.Error(err))
		}
	}
	if verdictCache != nil {
		verdictCache.Stop()
	}
}
