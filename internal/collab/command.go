package collab

import (
	"fmt"

	shellquote "github.com/kballard/go-shellquote"
)

// splitCommandLine splits a user-configured collaborator command (e.g.
// "npx tsgo" or a path containing spaces, properly quoted) into the binary
// to exec and its leading arguments. An empty line falls back to fallback.
func splitCommandLine(line, fallback string) (string, []string, error) {
	if line == "" {
		return fallback, nil, nil
	}
	parts, err := shellquote.Split(line)
	if err != nil {
		return "", nil, fmt.Errorf("invalid collaborator command %q: %w", line, err)
	}
	if len(parts) == 0 {
		return fallback, nil, nil
	}
	return parts[0], parts[1:], nil
}
