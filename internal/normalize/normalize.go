// Package normalize extracts the textual payload from heterogeneous
// generation backend responses and strips generation artifacts.
package normalize

import (
	"fmt"
	"sort"
	"strings"
)

// Error reports a response with no locatable textual payload. It is fatal to
// an extraction: a shapeless response is a transport problem, not a content
// problem the correction loop could fix.
type Error struct {
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("no textual payload in backend response: %s", e.Detail)
}

// Text locates the textual payload of a backend response and cleans it.
// Accepted shapes, first match wins:
//
//	plain string
//	{"content": "..."}
//	{"choices": [{"message": {"content": "..."}}]}
//	{"text": "..."}
//
// The payload is trimmed and a single leading ```json or ``` fence line plus
// a single trailing ``` fence are removed. Interior content is untouched.
func Text(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return clean(v), nil
	case map[string]any:
		if s, ok := v["content"].(string); ok {
			return clean(s), nil
		}
		if s, ok := choiceContent(v); ok {
			return clean(s), nil
		}
		if s, ok := v["text"].(string); ok {
			return clean(s), nil
		}
		return "", &Error{Detail: fmt.Sprintf("object with keys %s", keyList(v))}
	case nil:
		return "", &Error{Detail: "response is nil"}
	default:
		return "", &Error{Detail: fmt.Sprintf("unsupported response type %T", raw)}
	}
}

func choiceContent(v map[string]any) (string, bool) {
	choices, ok := v["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	message, ok := first["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := message["content"].(string)
	return content, ok
}

// clean trims whitespace and removes at most one leading and one trailing
// markdown code fence.
func clean(s string) string {
	s = strings.TrimSpace(s)

	if rest, ok := strings.CutPrefix(s, "```json"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "```"); ok {
		s = rest
	}
	if rest, ok := strings.CutSuffix(strings.TrimRight(s, " \t\n"), "```"); ok {
		s = rest
	}
	return strings.TrimSpace(s)
}

func keyList(v map[string]any) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "(none)"
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
