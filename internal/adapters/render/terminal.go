package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/iTschetter/PhishingDetection/internal/core"
	"github.com/iTschetter/PhishingDetection/internal/utils"
	"github.com/iTschetter/PhishingDetection/internal/verdict"
)

const maxItemWidth = 80

type styles struct {
	heading lipgloss.Style
	low     lipgloss.Style
	medium  lipgloss.Style
	high    lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		heading: lipgloss.NewStyle().Bold(true),
		low:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		medium:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		high:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		muted:   lipgloss.NewStyle().Faint(true),
	}
}

// TerminalPublisher prints outcomes for a person at a terminal
type TerminalPublisher struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles
	text   *utils.TextProcessor
}

// NewTerminalPublisher creates a publisher writing to w
func NewTerminalPublisher(w io.Writer, color bool, text *utils.TextProcessor) *TerminalPublisher {
	return &TerminalPublisher{
		w:      w,
		styles: newStyles(color),
		text:   text,
	}
}

// Publish writes one outcome
func (p *TerminalPublisher) Publish(ctx context.Context, outcome core.Outcome) error {
	var b strings.Builder

	if outcome.ItemID != "" {
		b.WriteString(p.styles.muted.Render("Message: " + p.text.ProcessText(outcome.ItemID, maxItemWidth)))
		b.WriteString("\n")
	}

	switch outcome.Kind {
	case core.OutcomeVerdict:
		if outcome.Verdict == nil {
			return fmt.Errorf("verdict outcome %s has no verdict", outcome.RunID)
		}
		p.writeVerdict(&b, *outcome.Verdict)
		if outcome.Cached {
			b.WriteString(p.styles.muted.Render("(cached result)"))
			b.WriteString("\n")
		}
	default:
		b.WriteString(p.styles.failure.Render(outcome.Message))
		b.WriteString("\n")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := io.WriteString(p.w, b.String()+"\n"); err != nil {
		return fmt.Errorf("failed to write outcome: %w", err)
	}
	return nil
}

func (p *TerminalPublisher) writeVerdict(b *strings.Builder, v verdict.Verdict) {
	tier := v.Tier()
	b.WriteString(p.styles.heading.Render("Risk Confidence Score: "))
	b.WriteString(p.tierStyle(tier).Render(fmt.Sprintf("%s (%d%%)", tier, v.Confidence)))
	b.WriteString("\n")

	if v.HasElements() {
		b.WriteString(p.styles.heading.Render("Suspicious Elements:"))
		b.WriteString("\n")
		for _, element := range v.Elements {
			b.WriteString("  • ")
			b.WriteString(p.text.StripControl(element, false))
			b.WriteString("\n")
		}
	} else {
		b.WriteString("No suspicious elements found\n")
	}

	b.WriteString(p.styles.heading.Render("Reasoning:"))
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(p.text.StripControl(v.Reasoning, true)))
	b.WriteString("\n")
}

func (p *TerminalPublisher) tierStyle(tier verdict.RiskTier) lipgloss.Style {
	switch tier {
	case verdict.TierHigh:
		return p.styles.high
	case verdict.TierMedium:
		return p.styles.medium
	default:
		return p.styles.low
	}
}
