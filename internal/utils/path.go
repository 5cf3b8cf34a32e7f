package utils

import "path/filepath"

// EnsureAbsPath normalizes a path so history entries stay valid when the
// tool is started from another working directory.
func EnsureAbsPath(path string) string {
	if path == "" {
		path = "."
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
