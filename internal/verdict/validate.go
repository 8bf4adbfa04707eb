package verdict

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	fieldConfidence = "confidence"
	fieldElements   = "elements"
	fieldReasoning  = "reasoning"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names so errors match what the model sent
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a candidate against the verdict schema. Missing or mistyped
// fields are rejected, never coerced.
func Validate(c Candidate) (Verdict, error) {
	confidence, err := decodeConfidence(c)
	if err != nil {
		return Verdict{}, err
	}
	elements, err := decodeElements(c)
	if err != nil {
		return Verdict{}, err
	}
	reasoning, err := decodeReasoning(c)
	if err != nil {
		return Verdict{}, err
	}

	v := Verdict{
		Confidence: confidence,
		Elements:   elements,
		Reasoning:  reasoning,
	}
	if err := validate.Struct(v); err != nil {
		return Verdict{}, toValidationError(err)
	}
	return v, nil
}

// Check applies the schema rules to an already decoded verdict, such as one
// read back from a persistent cache.
func Check(v Verdict) error {
	if err := validate.Struct(v); err != nil {
		return toValidationError(err)
	}
	if strings.TrimSpace(v.Reasoning) == "" {
		return &ValidationError{Field: fieldReasoning, Reason: "empty"}
	}
	return nil
}

func lookup(c Candidate, field string) (json.RawMessage, error) {
	raw, ok := c[field]
	if !ok {
		return nil, &ValidationError{Field: field, Reason: "missing"}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &ValidationError{Field: field, Reason: "null"}
	}
	return raw, nil
}

func decodeConfidence(c Candidate) (int, error) {
	raw, err := lookup(c, fieldConfidence)
	if err != nil {
		return 0, err
	}
	// encoding/json accepts a quoted number for json.Number, so check the
	// literal kind first
	if raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') {
		return 0, &ValidationError{Field: fieldConfidence, Reason: "not a number"}
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, &ValidationError{Field: fieldConfidence, Reason: "not a number"}
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &ValidationError{Field: fieldConfidence, Reason: "not a number"}
	}
	if f != math.Trunc(f) {
		return 0, &ValidationError{Field: fieldConfidence, Reason: "not an integer"}
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, &ValidationError{Field: fieldConfidence, Reason: "out of range 0-100"}
	}
	return int(f), nil
}

func decodeElements(c Candidate) ([]string, error) {
	raw, err := lookup(c, fieldElements)
	if err != nil {
		return nil, err
	}
	if raw[0] != '[' {
		return nil, &ValidationError{Field: fieldElements, Reason: "not an array"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ValidationError{Field: fieldElements, Reason: "not an array"}
	}

	elements := make([]string, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		var s string
		if len(item) == 0 || item[0] != '"' || json.Unmarshal(item, &s) != nil {
			return nil, &ValidationError{Field: fieldElements, Reason: fmt.Sprintf("item %d is not a string", i)}
		}
		elements = append(elements, s)
	}
	return elements, nil
}

func decodeReasoning(c Candidate) (string, error) {
	raw, err := lookup(c, fieldReasoning)
	if err != nil {
		return "", err
	}
	var s string
	if raw[0] != '"' || json.Unmarshal(raw, &s) != nil {
		return "", &ValidationError{Field: fieldReasoning, Reason: "not a string"}
	}
	if strings.TrimSpace(s) == "" {
		return "", &ValidationError{Field: fieldReasoning, Reason: "empty"}
	}
	return s, nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate verdict: %w", err)
	}

	fe := verrs[0]
	reason := fe.Tag()
	switch fe.Tag() {
	case "min", "max":
		reason = "out of range 0-100"
	case "required":
		reason = "missing"
	}
	return &ValidationError{Field: fe.Field(), Reason: reason}
}
