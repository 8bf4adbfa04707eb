package verdict

import (
	"regexp"
	"strings"
)

// fenceMarker matches a markdown code fence with an optional language hint.
//
// Accepted reply shapes:
//
//	{"confidence": 10, ...}
//	```json\n{"confidence": 10, ...}\n```
//	```\n{"confidence": 10, ...}\n```
//	  ```JSON {"confidence": 10, ...}```  \n
//
// A hint is only consumed when it is attached to the backticks, so JSON that
// starts right after a fence is left intact.
var fenceMarker = regexp.MustCompile("```[A-Za-z0-9_+.-]*")

// Sanitize strips code fences and surrounding whitespace from a raw model
// reply. The upstream failure text is returned unchanged.
func Sanitize(raw string) string {
	if raw == UpstreamFailureText {
		return raw
	}

	// Removing one marker can join stray backticks into a new one, so strip
	// until nothing matches.
	s := raw
	for {
		stripped := fenceMarker.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}

	return strings.TrimSpace(s)
}
