package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ansiEscape matches CSI and OSC terminal escape sequences
var ansiEscape = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// TextProcessor prepares untrusted text, such as model output, for display
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText shortens text to at most maxSize bytes on a rune boundary,
// marking the cut with an ellipsis
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	// If no limit or text is already within limits, return as is
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)))

	return truncated + "…"
}

// StripControl removes terminal escape sequences and control characters.
// Newlines survive when keepNewlines is set; tabs become spaces.
func (tp *TextProcessor) StripControl(text string, keepNewlines bool) string {
	text = strings.ToValidUTF8(text, "")
	cleaned := ansiEscape.ReplaceAllString(text, "")

	var b strings.Builder
	b.Grow(len(cleaned))
	for _, r := range cleaned {
		switch {
		case r == '\n' && keepNewlines:
			b.WriteRune(r)
		case r == '\t' || r == '\n':
			b.WriteByte(' ')
		case unicode.IsControl(r) || r == '\u2028' || r == '\u2029':
			continue
		default:
			b.WriteRune(r)
		}
	}

	if b.Len() != len(text) {
		tp.logger.Debug("Text sanitized",
			zap.Int("original_size", len(text)),
			zap.Int("sanitized_size", b.Len()))
	}
	return b.String()
}

// ProcessText strips control characters to a single line and truncates
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.TruncateText(strings.TrimSpace(tp.StripControl(text, false)), maxSize)
}
