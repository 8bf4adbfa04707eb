package verdict

// Verdict is the validated result of a phishing analysis
type Verdict struct {
	Confidence int      `json:"confidence" validate:"min=0,max=100"`
	Elements   []string `json:"elements" validate:"required"`
	Reasoning  string   `json:"reasoning" validate:"required"`
}

// RiskTier is a coarse severity bucket derived from a confidence score
type RiskTier int

const (
	// TierLow is any confidence below 50
	TierLow RiskTier = iota
	// TierMedium covers 50 through 74
	TierMedium
	// TierHigh is 75 and above
	TierHigh
)

const (
	mediumThreshold = 50
	highThreshold   = 75
)

func (t RiskTier) String() string {
	switch t {
	case TierLow:
		return "Low"
	case TierMedium:
		return "Medium"
	case TierHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// MarshalText renders the tier by name
func (t RiskTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Classify maps a confidence score to its risk tier. Boundaries belong to the
// higher tier.
func Classify(confidence int) RiskTier {
	switch {
	case confidence >= highThreshold:
		return TierHigh
	case confidence >= mediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Tier returns the risk tier of the verdict
func (v Verdict) Tier() RiskTier {
	return Classify(v.Confidence)
}

// HasElements reports whether the model listed any suspicious elements
func (v Verdict) HasElements() bool {
	return len(v.Elements) > 0
}
