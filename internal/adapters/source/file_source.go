package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/iTschetter/PhishingDetection/internal/core"
)

// FileSource reads the current item from a single message file. The file
// is re-read on every call so edits are picked up.
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by the message file at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Current parses the message file
func (s *FileSource) Current(ctx context.Context) (*core.Item, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message file: %w", err)
	}
	return ParseMessage(s.path, raw)
}

// StaticSource serves a message read once up front, such as from stdin
type StaticSource struct {
	item *core.Item
}

// NewReaderSource reads and parses a whole message from r
func NewReaderSource(id string, r io.Reader) (*StaticSource, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	item, err := ParseMessage(id, raw)
	if err != nil {
		return nil, err
	}
	return &StaticSource{item: item}, nil
}

// Current returns a copy of the parsed message
func (s *StaticSource) Current(ctx context.Context) (*core.Item, error) {
	item := *s.item
	return &item, nil
}
