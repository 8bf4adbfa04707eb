package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	sender := "test@example.com"
	metadata := EmailMetadata{
		Sender:         &sender,
		Subject:        "Test Subject",
		HasAttachments: true,
	}
	content := "Dear user, verify your account at <a href=\"http://x\">here</a> & win 100%!"

	prompt := BuildPrompt(content, metadata)

	wantMetadata := `{
  "sender": "test@example.com",
  "subject": "Test Subject",
  "hasAttachments": true
}`
	assert.Contains(t, prompt, wantMetadata)
	assert.Contains(t, prompt, content, "content must be embedded verbatim")

	instructions := strings.Index(prompt, "Respond with a JSON object")
	meta := strings.Index(prompt, wantMetadata)
	body := strings.Index(prompt, content)
	assert.True(t, instructions < meta && meta < body, "template, metadata, content order")

	assert.Equal(t, prompt, BuildPrompt(content, metadata), "prompt must be deterministic")
}

func TestBuildPrompt_AbsentSender(t *testing.T) {
	prompt := BuildPrompt("Test content", EmailMetadata{Subject: "Test"})

	assert.Contains(t, prompt, "{\n  \"subject\": \"Test\",\n  \"hasAttachments\": false\n}")
	assert.NotContains(t, prompt, "sender")
}

func TestBuildPrompt_DoesNotTruncate(t *testing.T) {
	content := strings.Repeat("lorem ipsum ", 100000)
	prompt := BuildPrompt(content, EmailMetadata{})
	assert.Contains(t, prompt, content)
}
