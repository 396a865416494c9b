// Package validation guards the few places user-supplied strings reach a
// subprocess invocation or the filesystem: the collaborator command lines
// and the workspace/tsconfig paths handed to the CLI.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateArgument rejects a subprocess argument that could escape the
// argv boundary or smuggle a traversal. Collaborator commands are run
// without a shell, but their argument lists are still user-configured
// strings, so shell metacharacters are refused outright rather than
// trusting every downstream tool to treat them literally.
func ValidateArgument(arg string) error {
	dangerous := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\\", "\"", "'"}
	for _, char := range dangerous {
		if strings.Contains(arg, char) {
			return fmt.Errorf("contains dangerous character: %s", char)
		}
	}

	if strings.Contains(arg, "..") {
		return fmt.Errorf("contains path traversal: %s", arg)
	}

	if filepath.IsAbs(arg) && !strings.HasPrefix(arg, "/usr/bin/") && !strings.HasPrefix(arg, "/bin/") {
		return fmt.Errorf("absolute path not allowed: %s", arg)
	}

	return nil
}

// ValidateCommand checks a collaborator executable name against an
// allowlist before it is ever spawned.
func ValidateCommand(command string, allowedCommands map[string]bool) error {
	if command == "" {
		return fmt.Errorf("command cannot be empty")
	}

	if !allowedCommands[command] {
		return fmt.Errorf("command '%s' is not allowed", command)
	}

	if err := ValidateArgument(command); err != nil {
		return fmt.Errorf("invalid command '%s': %w", command, err)
	}

	return nil
}

// ValidatePath rejects a CLI-supplied path (workspace, tsconfig, cache
// directory) that resolves through traversal components or carries shell
// metacharacters. Absolute paths are fine here; traversal out of whatever
// the user named is not.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal detected: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">"}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
