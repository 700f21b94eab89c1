package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureAbsPath expands a leading "~" and makes path absolute so the output
// location does not depend on the working directory.
func EnsureAbsPath(path string) string {
	if path == "" {
		path = "."
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
