package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime"

	"github.com/iTschetter/PhishingDetection/internal/core"
)

// ParseMessage turns a raw RFC 5322 message into an analyzable item. The
// body is the plain text part, or the HTML part rendered as text when the
// message has no plain text.
func ParseMessage(id string, raw []byte) (*core.Item, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message %s: %w", id, err)
	}

	item := &core.Item{
		ID:      id,
		Content: env.Text,
		Metadata: core.EmailMetadata{
			Subject:        env.GetHeader("Subject"),
			HasAttachments: len(env.Attachments) > 0,
		},
	}

	// A malformed From header leaves the sender absent
	if addrs, err := env.AddressList("From"); err == nil && len(addrs) > 0 {
		sender := addrs[0].Address
		item.Metadata.Sender = &sender
	} else if from := strings.TrimSpace(env.GetHeader("From")); from != "" {
		item.Metadata.Sender = &from
	}

	return item, nil
}
