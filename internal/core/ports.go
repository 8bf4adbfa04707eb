package core

import (
	"context"
)

// TextGenerator sends a prompt to a language model and returns its raw reply
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Model names the model used, for reporting
	Model() string
}

// ItemSource returns the item that is currently selected
type ItemSource interface {
	Current(ctx context.Context) (*Item, error)
}

// Publisher presents a finished analysis
type Publisher interface {
	Publish(ctx context.Context, outcome Outcome) error
}

// VerdictCache stores validated verdicts
type VerdictCache interface {
	// Get retrieves a cached entry, returning an error when absent or expired
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
