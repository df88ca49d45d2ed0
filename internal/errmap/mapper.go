// Package errmap turns the marketplace API's error response bodies into
// something a form can render: per-field message lists plus aggregate
// messages not attributable to a single field. Mapping never fails; a
// body that cannot be understood degrades to one generic message.
package errmap

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GenericMessage is surfaced when the error body is missing, not JSON
// or carries nothing usable.
const GenericMessage = "Something went wrong. Please try again."

const nonFieldErrorsKey = "non_field_errors"

// Result is the mapped error response.
type Result struct {
	FieldErrors map[string][]string
	Aggregate   []string
}

// Primary returns the first aggregate message, the one surfaced as the
// main user-visible failure. Field errors attach to their fields
// regardless of whether an aggregate message is also shown.
func (r Result) Primary() string {
	if len(r.Aggregate) == 0 {
		return ""
	}
	return r.Aggregate[0]
}

// Map parses an error response body. Keys are either non_field_errors
// (aggregate) or field paths; values may be a single string or an array
// of strings, normalized here to arrays. A top-level message string is
// used only when nothing else was usable.
func Map(body []byte) Result {
	result := Result{FieldErrors: make(map[string][]string)}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		result.Aggregate = []string{GenericMessage}
		return result
	}

	var message string
	for key, value := range raw {
		switch key {
		case nonFieldErrorsKey:
			if msgs := normalize(value); len(msgs) > 0 {
				result.Aggregate = append(result.Aggregate, strings.Join(msgs, " "))
			}
		case "message":
			if s, ok := value.(string); ok {
				message = s
			}
		default:
			if msgs := normalize(value); len(msgs) > 0 {
				result.FieldErrors[key] = msgs
			}
		}
	}

	if len(result.Aggregate) == 0 && len(result.FieldErrors) == 0 {
		if message != "" {
			result.Aggregate = []string{message}
		} else {
			result.Aggregate = []string{GenericMessage}
		}
	}

	return result
}

// normalize flattens the server's duck-typed error values (string or
// array) to a list of strings. Anything else is unusable and dropped;
// the caller falls back to the generic message when nothing remains.
func normalize(value any) []string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		var out []string
		for _, item := range v {
			switch s := item.(type) {
			case string:
				if s != "" {
					out = append(out, s)
				}
			case float64, bool:
				out = append(out, fmt.Sprintf("%v", s))
			}
		}
		return out
	default:
		return nil
	}
}
