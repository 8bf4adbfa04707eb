package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/iTschetter/PhishingDetection/internal/core"
)

// Report is the JSON form of an outcome
type Report struct {
	RunID      string    `json:"run_id"`
	ItemID     string    `json:"item_id,omitempty"`
	Outcome    string    `json:"outcome"`
	Tier       string    `json:"tier,omitempty"`
	Confidence *int      `json:"confidence,omitempty"`
	Elements   []string  `json:"elements,omitempty"`
	Reasoning  string    `json:"reasoning,omitempty"`
	Message    string    `json:"message,omitempty"`
	Model      string    `json:"model,omitempty"`
	Cached     bool      `json:"cached,omitempty"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// NewReport flattens an outcome for serialization
func NewReport(outcome core.Outcome) Report {
	r := Report{
		RunID:      outcome.RunID,
		ItemID:     outcome.ItemID,
		Outcome:    outcome.Kind.String(),
		Message:    outcome.Message,
		Model:      outcome.ModelUsed,
		Cached:     outcome.Cached,
		AnalyzedAt: outcome.AnalyzedAt,
	}
	if outcome.Kind == core.OutcomeVerdict && outcome.Verdict != nil {
		v := *outcome.Verdict
		r.Tier = v.Tier().String()
		r.Confidence = &v.Confidence
		r.Elements = append([]string{}, v.Elements...)
		r.Reasoning = v.Reasoning
	}
	return r
}

// JSONPublisher writes one JSON object per outcome
type JSONPublisher struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONPublisher creates a publisher writing newline-delimited JSON to w
func NewJSONPublisher(w io.Writer) *JSONPublisher {
	return &JSONPublisher{enc: json.NewEncoder(w)}
}

// Publish writes one outcome
func (p *JSONPublisher) Publish(ctx context.Context, outcome core.Outcome) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enc.Encode(NewReport(outcome)); err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	return nil
}
