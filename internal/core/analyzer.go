package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iTschetter/PhishingDetection/internal/metrics"
	"github.com/iTschetter/PhishingDetection/internal/verdict"
)

// AnalyzerConfig holds the analyzer's tunables
type AnalyzerConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Analyzer runs at most one analysis at a time. Triggers that arrive while a
// run is in flight are dropped, not queued.
type Analyzer struct {
	source    ItemSource
	generator TextGenerator
	publisher Publisher
	cache     VerdictCache
	metrics   *metrics.Recorder
	logger    *zap.Logger
	cfg       AnalyzerConfig
	now       func() time.Time

	mu    sync.Mutex
	state State
	// generation advances on every item change so runs started for an
	// earlier item can tell their result is stale
	generation uint64
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(
	source ItemSource,
	generator TextGenerator,
	publisher Publisher,
	cache VerdictCache,
	recorder *metrics.Recorder,
	logger *zap.Logger,
	cfg AnalyzerConfig,
) *Analyzer {
	if cache == nil {
		cfg.CacheEnabled = false
	}
	return &Analyzer{
		source:    source,
		generator: generator,
		publisher: publisher,
		cache:     cache,
		metrics:   recorder,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// State returns the current single-flight state
func (a *Analyzer) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Generation returns the current item generation
func (a *Analyzer) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation
}

// Analyze runs one analysis of the current item and publishes the outcome.
// It returns false without side effects beyond bookkeeping when a run is
// already in flight. An outcome whose item was superseded while the run was
// in flight is returned but not published.
func (a *Analyzer) Analyze(ctx context.Context, kind TriggerKind) (Outcome, bool) {
	gen, ok := a.begin(kind)
	if !ok {
		a.logger.Debug("Analysis already in progress, dropping trigger",
			zap.Stringer("trigger", kind))
		a.metrics.TriggerDropped(kind.String())
		return Outcome{}, false
	}
	defer a.finish()
	a.metrics.TriggerAccepted(kind.String())

	runID := uuid.NewString()
	logger := a.logger.With(zap.String("run_id", runID), zap.Uint64("generation", gen))
	logger.Info("Starting analysis", zap.Stringer("trigger", kind))

	start := a.now()
	outcome := a.run(ctx, logger)
	outcome.RunID = runID
	outcome.Generation = gen
	outcome.AnalyzedAt = a.now()

	if !a.publishIfCurrent(ctx, logger, gen, outcome, start) {
		a.metrics.StaleDiscarded()
	}
	return outcome, true
}

// publishIfCurrent publishes the outcome unless the item changed since the run
// began. The generation check and the publish happen under the same lock so
// an item change cannot slip in between. Publishers must not call back into
// the Analyzer.
func (a *Analyzer) publishIfCurrent(ctx context.Context, logger *zap.Logger, gen uint64, outcome Outcome, start time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.generation != gen {
		logger.Info("Selected item changed during analysis, discarding result",
			zap.Uint64("current_generation", a.generation),
			zap.String("item_id", outcome.ItemID))
		return false
	}

	a.metrics.Outcome(outcome.Kind.String())
	logger.Info("Analysis finished",
		zap.Stringer("outcome", outcome.Kind),
		zap.String("item_id", outcome.ItemID),
		zap.Duration("duration", outcome.AnalyzedAt.Sub(start)))

	if err := a.publish(ctx, outcome); err != nil {
		logger.Error("Failed to publish analysis outcome", zap.Error(err))
	}
	return true
}

// publish hands the outcome to the publisher. A panicking publisher is
// reported as an error.
func (a *Analyzer) publish(ctx context.Context, outcome Outcome) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("publisher panic: %v", r)
		}
	}()
	return a.publisher.Publish(ctx, outcome)
}

// begin moves Idle to Running. Item changes advance the generation even when
// the trigger itself is dropped.
func (a *Analyzer) begin(kind TriggerKind) (uint64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if kind == TriggerItemChanged {
		a.generation++
	}
	if a.state == StateRunning {
		return 0, false
	}
	a.state = StateRunning
	return a.generation, true
}

func (a *Analyzer) finish() {
	a.mu.Lock()
	a.state = StateIdle
	a.mu.Unlock()
}

func (a *Analyzer) run(ctx context.Context, logger *zap.Logger) Outcome {
	item, err := a.current(ctx)
	if err != nil {
		logger.Error("Failed to read current item", zap.Error(err))
		return upstreamFailure(fmt.Errorf("read current item: %w", err))
	}

	prompt := BuildPrompt(item.Content, item.Metadata)
	model := a.generator.Model()

	var key string
	if a.cfg.CacheEnabled {
		key = cacheKey(model, prompt)
		if v, model, ok := a.cached(ctx, logger, key); ok {
			logger.Debug("Cache hit for prompt", zap.String("item_id", item.ID))
			a.metrics.CacheHit()
			return Outcome{
				Kind:      OutcomeVerdict,
				Verdict:   &v,
				Tier:      v.Tier(),
				ItemID:    item.ID,
				ModelUsed: model,
				Cached:    true,
			}
		}
		a.metrics.CacheMiss()
	}

	raw, err := a.generate(ctx, prompt)
	if err != nil {
		logger.Error("Text generation failed", zap.Error(err), zap.String("model", model))
		outcome := upstreamFailure(err)
		outcome.ItemID = item.ID
		outcome.ModelUsed = model
		return outcome
	}

	v, err := verdict.Interpret(raw)
	if err != nil {
		outcome := a.interpretFailure(logger, raw, err)
		outcome.ItemID = item.ID
		outcome.ModelUsed = model
		return outcome
	}

	if a.cfg.CacheEnabled {
		entry := &CacheEntry{
			Key:       key,
			Verdict:   v,
			ModelUsed: model,
			CreatedAt: a.now(),
			ExpiresAt: a.now().Add(a.cfg.CacheTTL),
		}
		if err := a.cache.Set(ctx, entry); err != nil {
			logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return Outcome{
		Kind:      OutcomeVerdict,
		Verdict:   &v,
		Tier:      v.Tier(),
		ItemID:    item.ID,
		ModelUsed: model,
	}
}

// current reads the selected item. A panicking source counts as a failed read.
func (a *Analyzer) current(ctx context.Context) (item *Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			item, err = nil, fmt.Errorf("item source panic: %v", r)
		}
	}()

	item, err = a.source.Current(ctx)
	if err == nil && item == nil {
		err = ErrNoItem
	}
	return item, err
}

// cached returns the stored verdict for key. Entries live outside the process,
// so they are checked again and dropped when they no longer validate.
func (a *Analyzer) cached(ctx context.Context, logger *zap.Logger, key string) (verdict.Verdict, string, bool) {
	entry, err := a.cache.Get(ctx, key)
	if err != nil || entry == nil {
		return verdict.Verdict{}, "", false
	}
	if err := verdict.Check(entry.Verdict); err != nil {
		logger.Warn("Discarding invalid cached verdict", zap.Error(err), zap.String("key", key))
		if err := a.cache.Delete(ctx, key); err != nil {
			logger.Error("Failed to delete invalid cache entry", zap.Error(err))
		}
		return verdict.Verdict{}, "", false
	}
	return entry.Verdict, entry.ModelUsed, true
}

// generate calls the model once. A panicking generator counts as a failed call.
func (a *Analyzer) generate(ctx context.Context, prompt string) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: generator panic: %v", ErrUpstreamFailure, r)
		}
	}()

	raw, err = a.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
	}
	return raw, nil
}

func (a *Analyzer) interpretFailure(logger *zap.Logger, raw string, err error) Outcome {
	var (
		perr *verdict.ParseError
		verr *verdict.ValidationError
	)
	switch {
	case errors.Is(err, verdict.ErrUpstreamFailure):
		logger.Error("Model reported an analysis failure", zap.String("response", raw))
		return upstreamFailure(err)
	case errors.As(err, &perr):
		logger.Error("Failed to parse analysis response",
			zap.Error(err),
			zap.String("response", perr.Text))
	case errors.As(err, &verr):
		logger.Error("Analysis response failed validation",
			zap.Error(err),
			zap.String("field", verr.Field))
	default:
		logger.Error("Failed to interpret analysis response", zap.Error(err))
	}

	return Outcome{
		Kind:    OutcomeInterpretFailure,
		Message: MessageInterpretFailure,
		Err:     err,
	}
}

func upstreamFailure(err error) Outcome {
	if !errors.Is(err, ErrUpstreamFailure) {
		err = fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
	}
	return Outcome{
		Kind:    OutcomeUpstreamFailure,
		Message: MessageUpstreamFailure,
		Err:     err,
	}
}

// cacheKey identifies a prompt sent to a given model
func cacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
