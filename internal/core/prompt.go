package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const promptFormat = `You are an email security analyst. Analyze the following email for signs of phishing or scams.
Respond with a JSON object containing:
- confidence: integer between 0 and 100 (how likely the email is phishing or a scam)
- elements: array of strings (the suspicious elements you found, most severe first; empty if none)
- reasoning: string (brief explanation of your assessment)

Email metadata:
%s

Email content:
%s

Respond only with the JSON object and nothing else.`

// BuildPrompt renders the model request for an email. Content is embedded
// verbatim after the metadata block.
func BuildPrompt(content string, metadata EmailMetadata) string {
	return fmt.Sprintf(promptFormat, formatMetadata(metadata), content)
}

// formatMetadata serializes metadata as indented JSON in field order
func formatMetadata(metadata EmailMetadata) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(metadata); err != nil {
		// Unreachable: metadata holds only strings and bools
		return fmt.Sprintf("%+v", metadata)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
