package verdict

import (
	"errors"
	"fmt"
)

// UpstreamFailureText is the reply text some generators emit instead of an
// error when the model call itself failed.
const UpstreamFailureText = "Error analyzing email"

// ErrUpstreamFailure signals that the text-generation service failed
var ErrUpstreamFailure = errors.New("upstream analysis failure")

// ParseError is returned when a sanitized reply is not a single JSON object
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "could not parse analysis response"
	}
	return fmt.Sprintf("could not parse analysis response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError names the verdict field that failed schema checks
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid verdict field %q: %s", e.Field, e.Reason)
}
