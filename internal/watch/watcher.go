package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/iTschetter/PhishingDetection/internal/core"
)

const minTick = 10 * time.Millisecond

// Selector records which message is current
type Selector interface {
	Select(path string)
}

// Trigger starts an analysis
type Trigger interface {
	Analyze(ctx context.Context, kind core.TriggerKind) (core.Outcome, bool)
}

// Watcher turns new or rewritten messages in a directory into item-changed
// triggers. Bursts of writes to the same file settle for the debounce
// window before they count.
type Watcher struct {
	dir        string
	extensions []string
	debounce   time.Duration
	selector   Selector
	trigger    Trigger
	logger     *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time

	wg sync.WaitGroup
}

// NewWatcher creates a watcher for dir
func NewWatcher(dir string, extensions []string, debounce time.Duration, selector Selector, trigger Trigger, logger *zap.Logger) *Watcher {
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return &Watcher{
		dir:        dir,
		extensions: exts,
		debounce:   debounce,
		selector:   selector,
		trigger:    trigger,
		logger:     logger,
		pending:    make(map[string]time.Time),
	}
}

// Run selects the newest existing message, then watches for changes until
// ctx is cancelled. It waits for analyses it started before returning.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("Watching directory for messages",
		zap.String("dir", w.dir),
		zap.Strings("extensions", w.extensions),
		zap.Duration("debounce", w.debounce))

	defer w.wg.Wait()

	if path, err := w.newest(); err != nil {
		w.logger.Warn("Failed to scan directory", zap.Error(err))
	} else if path != "" {
		w.fire(ctx, path)
	}

	tick := w.debounce / 2
	if tick < minTick {
		tick = minTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping directory watcher")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))

		case <-ticker.C:
			if path := w.settled(time.Now()); path != "" {
				w.fire(ctx, path)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.matches(event.Name) {
		return
	}

	w.logger.Debug("Message changed",
		zap.String("path", event.Name),
		zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// settled drains events older than the debounce window and returns the most
// recently touched path among them
func (w *Watcher) settled(now time.Time) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		latest   string
		latestAt time.Time
	)
	for path, at := range w.pending {
		if now.Sub(at) < w.debounce {
			continue
		}
		delete(w.pending, path)
		if latest == "" || at.After(latestAt) {
			latest, latestAt = path, at
		}
	}
	return latest
}

// fire selects path and starts an analysis without blocking the event loop
func (w *Watcher) fire(ctx context.Context, path string) {
	w.selector.Select(path)
	w.logger.Info("Selected message", zap.String("path", path))

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.trigger.Analyze(ctx, core.TriggerItemChanged)
	}()
}

func (w *Watcher) matches(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range w.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// newest returns the most recently modified matching file, or ""
func (w *Watcher) newest() (string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return "", err
	}

	var (
		newest  string
		newestT time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() || !w.matches(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestT) {
			newest = filepath.Join(w.dir, entry.Name())
			newestT = info.ModTime()
		}
	}
	return newest, nil
}
