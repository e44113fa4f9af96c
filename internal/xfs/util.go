package xfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces a leading "~" or "~/" with the user's home directory.
// Paths such as "~user/x" are returned unchanged.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// EnsureParentDir creates the parent directory of path if it does not exist.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("xfs: failed to create directory %s: %w", dir, err)
	}

	return nil
}
