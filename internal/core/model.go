package core

import (
	"time"

	"github.com/iTschetter/PhishingDetection/internal/verdict"
)

// EmailMetadata is the snapshot of header facts sent alongside the body
type EmailMetadata struct {
	Sender         *string `json:"sender,omitempty"`
	Subject        string  `json:"subject"`
	HasAttachments bool    `json:"hasAttachments"`
}

// Item is the email currently selected for analysis
type Item struct {
	ID       string
	Content  string
	Metadata EmailMetadata
}

// TriggerKind identifies what asked for an analysis
type TriggerKind int

const (
	// TriggerManual is an explicit user request
	TriggerManual TriggerKind = iota
	// TriggerItemChanged fires when a different item becomes current
	TriggerItemChanged
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerManual:
		return "manual"
	case TriggerItemChanged:
		return "item_changed"
	default:
		return "unknown"
	}
}

// State is the analyzer's single-flight state
type State int

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// OutcomeKind tags which variant of Outcome is populated
type OutcomeKind int

const (
	// OutcomeVerdict carries a validated verdict
	OutcomeVerdict OutcomeKind = iota
	// OutcomeUpstreamFailure means the item or the model could not be reached
	OutcomeUpstreamFailure
	// OutcomeInterpretFailure means the model reply could not be parsed or validated
	OutcomeInterpretFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeVerdict:
		return "verdict"
	case OutcomeUpstreamFailure:
		return "upstream_failure"
	case OutcomeInterpretFailure:
		return "interpret_failure"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// User-facing failure messages
const (
	MessageUpstreamFailure  = "Error analyzing email. Please try again."
	MessageInterpretFailure = "Could not interpret the analysis result."
)

// Outcome is the result of one analysis run as handed to a Publisher
type Outcome struct {
	Kind       OutcomeKind      `json:"kind"`
	Verdict    *verdict.Verdict `json:"verdict,omitempty"`
	Tier       verdict.RiskTier `json:"-"`
	Message    string           `json:"message,omitempty"`
	Err        error            `json:"-"`
	RunID      string           `json:"run_id"`
	ItemID     string           `json:"item_id,omitempty"`
	Generation uint64           `json:"-"`
	ModelUsed  string           `json:"model_used,omitempty"`
	Cached     bool             `json:"cached,omitempty"`
	AnalyzedAt time.Time        `json:"analyzed_at"`
}

// CacheEntry is a stored verdict keyed by the prompt that produced it
type CacheEntry struct {
	Key       string          `json:"key"`
	Verdict   verdict.Verdict `json:"verdict"`
	ModelUsed string          `json:"model_used"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}
