package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iTschetter/PhishingDetection/internal/verdict"
)

var (
	// ErrNotFound is returned when a cache entry is not found
	ErrNotFound = errors.New("cache entry not found")
	// ErrExpired is returned when a cache entry has expired
	ErrExpired = errors.New("cache entry expired")
)

func encodeVerdict(v verdict.Verdict) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode verdict: %w", err)
	}
	return string(data), nil
}

func decodeVerdict(data string) (verdict.Verdict, error) {
	var v verdict.Verdict
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return verdict.Verdict{}, fmt.Errorf("failed to decode cached verdict: %w", err)
	}
	return v, nil
}

// janitor runs a cleanup function on a fixed schedule until stopped
type janitor struct {
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func startJanitor(freq time.Duration, cleanup func(context.Context) error, logger *zap.Logger) *janitor {
	j := &janitor{stopCh: make(chan struct{})}
	if freq <= 0 {
		return j
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ticker := time.NewTicker(freq)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := cleanup(context.Background()); err != nil {
					logger.Error("Failed to clean up cache", zap.Error(err))
				}
			case <-j.stopCh:
				return
			}
		}
	}()
	return j
}

// stop ends the cleanup loop and waits for it to exit. Safe to call twice.
func (j *janitor) stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
	j.wg.Wait()
}
