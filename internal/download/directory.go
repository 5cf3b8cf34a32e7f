package download

import (
	"errors"
	"fmt"
	"imagefetch/internal/download/types"
	"io"
	"io/fs"
	"os"
)

// EnsureDirectory creates dir if needed. An existing directory is not an error.
func EnsureDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return types.NewError(types.KindDirectoryCreation, err)
	}
	return nil
}

// PrepareDirectory runs EnsureDirectory and reports the outcome to w.
// It returns false when the directory cannot be used.
func PrepareDirectory(w io.Writer, dir string) bool {
	err := EnsureDirectory(dir)
	switch {
	case err == nil:
		fmt.Fprintf(w, "✓ Directory '%s' is ready\n", dir)
		return true
	case errors.Is(err, fs.ErrPermission):
		fmt.Fprintln(w, "✗ Permission denied: Cannot create directory")
	default:
		fmt.Fprintf(w, "✗ Error creating directory: %v\n", err)
	}
	return false
}
