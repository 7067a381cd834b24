// Package fsutil provides the small set of file primitives behind the local
// draft slot and the user configuration file: atomic replacement, tolerant
// reads, and idempotent removal.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// DefaultDirMode is used for parent directories created on demand.
const DefaultDirMode os.FileMode = 0o700

// ReadIfExists reads path. A missing file is not an error: it returns
// (nil, false, nil).
func ReadIfExists(ctx context.Context, path string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("read file: %w", err)
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		return content, true, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case errors.Is(err, fs.ErrPermission):
		return nil, false, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	}

	if stat, statErr := os.Stat(path); statErr == nil && stat.IsDir() {
		return nil, false, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	return nil, false, fmt.Errorf("read %s: %w", path, err)
}

// RemoveIfExists deletes path. It reports whether a file was removed; a
// missing file is not an error.
func RemoveIfExists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("remove file: %w", err)
	}

	err := os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case errors.Is(err, fs.ErrPermission):
		return false, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return false, fmt.Errorf("remove %s: %w", path, err)
	}
}

// EnsureDir creates the parent directory of path when it does not exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
