// Package util provides small helpers shared across ccrun: shell quoting
// and crash-safe file writes.
package util

import (
	"os"
	"path/filepath"
)

// AtomicWriteFile writes data to a file atomically.
// It first writes to a temporary file next to the target, then renames it
// into place. The rename is atomic on POSIX systems, so readers never see
// a partially written snapshot.
//
// When the rename fails, the cleanup error from os.Remove is dropped: the
// rename error is what the caller needs to see.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmpFile := path + ".tmp"

	if err := os.WriteFile(tmpFile, data, perm); err != nil {
		return err
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}

	return nil
}
