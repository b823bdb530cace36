package gen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes a leading ```json (or bare ```) fence and a
// trailing ``` from model output, with surrounding whitespace.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decode strips code fences and unmarshals raw model text into T.
// An empty response is reported as ErrEmptyResponse, anything unparsable as
// ErrMalformedResponse.
func decode[T any](raw string) (T, error) {
	var v T
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return v, ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return v, nil
}
