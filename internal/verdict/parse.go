package verdict

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Candidate is a parsed reply object whose fields have not been validated yet
type Candidate map[string]json.RawMessage

var errNotObject = errors.New("top-level value is not a JSON object")

// Parse decodes sanitized reply text into a candidate verdict. The upstream
// failure text yields ErrUpstreamFailure; anything that is not exactly one JSON
// object yields a *ParseError.
func Parse(sanitized string) (Candidate, error) {
	if sanitized == UpstreamFailureText {
		return nil, ErrUpstreamFailure
	}

	trimmed := bytes.TrimSpace([]byte(sanitized))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ParseError{Text: sanitized, Err: errNotObject}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var candidate Candidate
	if err := dec.Decode(&candidate); err != nil {
		return nil, &ParseError{Text: sanitized, Err: err}
	}
	if candidate == nil {
		return nil, &ParseError{Text: sanitized, Err: errNotObject}
	}

	// A second value after the object means the reply was not a single object
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Text: sanitized, Err: errors.New("unexpected data after JSON object")}
	}

	return candidate, nil
}

// Interpret runs the full reply pipeline: sanitize, parse, validate
func Interpret(raw string) (Verdict, error) {
	candidate, err := Parse(Sanitize(raw))
	if err != nil {
		return Verdict{}, err
	}
	return Validate(candidate)
}
