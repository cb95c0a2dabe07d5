// Package output delivers flattened text: to a stream as one write, or to a
// file atomically while holding an advisory lock so concurrent runs (for
// example a watcher and a manual build) never interleave.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Bytes renders text the way it is written: followed by one newline.
func Bytes(text string) []byte {
	data := make([]byte, 0, len(text)+1)
	data = append(data, text...)
	return append(data, '\n')
}

// Write emits text to w in a single write.
func Write(w io.Writer, text string) error {
	if _, err := w.Write(Bytes(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteFile replaces path with text. The lock file is path + ".lock".
func WriteFile(path, text string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s.lock: %w", path, err)
	}
	defer lock.Unlock()

	return atomicWrite(path, Bytes(text))
}

// atomicWrite writes to a temp file in the target directory and renames it
// over path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}
