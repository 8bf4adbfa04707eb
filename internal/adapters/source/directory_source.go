package source

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/iTschetter/PhishingDetection/internal/core"
)

// DirectorySource holds the currently selected message in a watched
// directory. The selection changes whenever a new message arrives.
type DirectorySource struct {
	mu       sync.RWMutex
	selected string
}

// NewDirectorySource creates a source with nothing selected
func NewDirectorySource() *DirectorySource {
	return &DirectorySource{}
}

// Select makes path the current item
func (s *DirectorySource) Select(path string) {
	s.mu.Lock()
	s.selected = path
	s.mu.Unlock()
}

// Selected returns the path of the current item, or "" if none
func (s *DirectorySource) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Current parses the selected message
func (s *DirectorySource) Current(ctx context.Context) (*core.Item, error) {
	path := s.Selected()
	if path == "" {
		return nil, core.ErrNoItem
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selected message: %w", err)
	}
	return ParseMessage(path, raw)
}
