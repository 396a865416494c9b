package diagnostics

import "strings"

const ignorePrefix = "svelte-ignore"

// parseIgnoreDirective extracts the comma-separated codes from a comment's
// raw text, e.g. " svelte-ignore a11y-autofocus, a11y-positive-tabindex "
// yields ["a11y-autofocus", "a11y-positive-tabindex"]. ok is false for any
// comment that isn't a svelte-ignore directive.
func parseIgnoreDirective(data string) (codes []string, ok bool) {
	trimmed := strings.TrimSpace(data)
	if !strings.HasPrefix(trimmed, ignorePrefix) {
		return nil, false
	}
	rest := strings.TrimSpace(trimmed[len(ignorePrefix):])
	if rest == "" {
		return nil, false
	}
	for _, part := range strings.Split(rest, ",") {
		code := normalizeCode(strings.TrimSpace(part))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes, len(codes) > 0
}

// normalizeCode accepts both kebab-case and snake_case spellings and always
// returns the kebab-case form diagnostics are coded with.
func normalizeCode(code string) string {
	return strings.ReplaceAll(code, "_", "-")
}

// ignoreScope tracks the codes suppressed for the element currently being
// walked and its descendants, pushed when a svelte-ignore comment precedes
// an element and popped once that element's subtree has been visited.
type ignoreScope struct {
	frames [][]string
}

func (s *ignoreScope) push(codes []string) {
	s.frames = append(s.frames, codes)
}

func (s *ignoreScope) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// suppresses reports whether any active frame's codes cover the given
// diagnostic code, honoring a trailing "*" as a prefix wildcard.
func (s *ignoreScope) suppresses(code string) bool {
	code = normalizeCode(code)
	for _, frame := range s.frames {
		for _, ignored := range frame {
			if ignored == code {
				return true
			}
			if strings.HasSuffix(ignored, "*") && strings.HasPrefix(code, strings.TrimSuffix(ignored, "*")) {
				return true
			}
		}
	}
	return false
}
