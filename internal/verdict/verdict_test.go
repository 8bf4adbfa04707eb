package verdict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain json", `{"confidence": 1}`, `{"confidence": 1}`},
		{"json fence", "```json\n{\"confidence\": 85}\n```", `{"confidence": 85}`},
		{"bare fence", "```\n{\"confidence\": 85}\n```\n", `{"confidence": 85}`},
		{"uppercase hint", "  ```JSON {\"a\":1}```  ", `{"a":1}`},
		{"fence in the middle", "prefix ```json {\"a\":1}", `prefix  {"a":1}`},
		{"brace right after fence", "```{\"a\":1}```", `{"a":1}`},
		{"only whitespace", " \n\t ", ""},
		{"upstream failure text", UpstreamFailureText, UpstreamFailureText},
		{"run of backticks", "`````` x", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.raw))
		})
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"invalid json",
		"```json\n{\"confidence\": 85,\"elements\": [],\"reasoning\": \"test\"}\n```",
		"````json````",
		"`` ` ``` ``` `` `",
		"```go\nfunc main() {}\n```\n```\n",
		"``` Error analyzing email ```",
		UpstreamFailureText,
		"\n```python```json```\n",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestParse(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		c, err := Parse(`{"confidence": 85, "elements": [], "reasoning": "test"}`)
		require.NoError(t, err)
		assert.Len(t, c, 3)
	})

	t.Run("upstream failure text", func(t *testing.T) {
		c, err := Parse(UpstreamFailureText)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, ErrUpstreamFailure)
	})

	failures := map[string]string{
		"invalid json":   "invalid json",
		"empty":          "",
		"array":          `[{"confidence": 1}]`,
		"string":         `"hello"`,
		"number":         `42`,
		"null":           `null`,
		"truncated":      `{"confidence": 85, "elements": [`,
		"trailing value": `{"confidence": 85} {"confidence": 1}`,
		"trailing text":  `{"confidence": 85} thanks!`,
		"fenced invalid": "```json\ninvalid json\n```",
	}
	for name, in := range failures {
		t.Run(name, func(t *testing.T) {
			c, err := Parse(in)
			assert.Nil(t, c)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, in, perr.Text)
			assert.False(t, errors.Is(err, ErrUpstreamFailure))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T, in string) Verdict {
		t.Helper()
		c, err := Parse(in)
		require.NoError(t, err)
		v, err := Validate(c)
		require.NoError(t, err)
		return v
	}

	t.Run("full verdict keeps element order", func(t *testing.T) {
		v := valid(t, `{"confidence": 85, "elements": ["Suspicious sender", "Urgent language"], "reasoning": "Test reasoning"}`)
		assert.Equal(t, Verdict{
			Confidence: 85,
			Elements:   []string{"Suspicious sender", "Urgent language"},
			Reasoning:  "Test reasoning",
		}, v)
	})

	t.Run("empty elements", func(t *testing.T) {
		v := valid(t, `{"confidence": 0, "elements": [], "reasoning": "fine"}`)
		assert.NotNil(t, v.Elements)
		assert.Empty(t, v.Elements)
		assert.False(t, v.HasElements())
	})

	t.Run("integral float accepted", func(t *testing.T) {
		v := valid(t, `{"confidence": 100.0, "elements": [], "reasoning": "x"}`)
		assert.Equal(t, 100, v.Confidence)
	})

	tests := []struct {
		name  string
		in    string
		field string
	}{
		{"missing confidence", `{"elements": [], "reasoning": "x"}`, "confidence"},
		{"null confidence", `{"confidence": null, "elements": [], "reasoning": "x"}`, "confidence"},
		{"string confidence", `{"confidence": "85", "elements": [], "reasoning": "x"}`, "confidence"},
		{"fractional confidence", `{"confidence": 85.5, "elements": [], "reasoning": "x"}`, "confidence"},
		{"negative confidence", `{"confidence": -1, "elements": [], "reasoning": "x"}`, "confidence"},
		{"confidence above 100", `{"confidence": 101, "elements": [], "reasoning": "x"}`, "confidence"},
		{"huge confidence", `{"confidence": 1e300, "elements": [], "reasoning": "x"}`, "confidence"},
		{"missing elements", `{"confidence": 10, "reasoning": "x"}`, "elements"},
		{"elements not array", `{"confidence": 10, "elements": "link", "reasoning": "x"}`, "elements"},
		{"elements with number", `{"confidence": 10, "elements": ["a", 2], "reasoning": "x"}`, "elements"},
		{"elements null", `{"confidence": 10, "elements": null, "reasoning": "x"}`, "elements"},
		{"missing reasoning", `{"confidence": 10, "elements": []}`, "reasoning"},
		{"empty reasoning", `{"confidence": 10, "elements": [], "reasoning": "  "}`, "reasoning"},
		{"reasoning not string", `{"confidence": 10, "elements": [], "reasoning": ["x"]}`, "reasoning"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.in)
			require.NoError(t, err)
			_, err = Validate(c)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(Verdict{Confidence: 0, Elements: []string{}, Reasoning: "fine"}))
	assert.NoError(t, Check(Verdict{Confidence: 100, Elements: []string{"Urgent language"}, Reasoning: "x"}))

	tests := []struct {
		name   string
		in     Verdict
		field  string
		reason string
	}{
		{"confidence above 100", Verdict{Confidence: 500, Elements: []string{}, Reasoning: "x"}, "confidence", "out of range 0-100"},
		{"negative confidence", Verdict{Confidence: -1, Elements: []string{}, Reasoning: "x"}, "confidence", "out of range 0-100"},
		{"nil elements", Verdict{Confidence: 10, Reasoning: "x"}, "elements", "missing"},
		{"empty reasoning", Verdict{Confidence: 10, Elements: []string{}}, "reasoning", "missing"},
		{"blank reasoning", Verdict{Confidence: 10, Elements: []string{}, Reasoning: " \t"}, "reasoning", "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			require.ErrorAs(t, Check(tt.in), &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := map[int]RiskTier{
		0:   TierLow,
		20:  TierLow,
		49:  TierLow,
		50:  TierMedium,
		74:  TierMedium,
		75:  TierHigh,
		100: TierHigh,
	}
	for confidence, want := range tests {
		assert.Equal(t, want, Classify(confidence), "confidence %d", confidence)
	}
	assert.Equal(t, "Medium", TierMedium.String())
}

func TestInterpret(t *testing.T) {
	v, err := Interpret("```json\n{\"confidence\": 85,\"elements\": [],\"reasoning\": \"test\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, Verdict{Confidence: 85, Elements: []string{}, Reasoning: "test"}, v)
	assert.Equal(t, TierHigh, v.Tier())

	_, err = Interpret("invalid json")
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)

	_, err = Interpret("  " + UpstreamFailureText + "\n")
	assert.ErrorIs(t, err, ErrUpstreamFailure)
}
