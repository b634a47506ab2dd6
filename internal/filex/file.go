// Package filex holds small filesystem helpers shared by the backup pipeline.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// EnsureDir creates dir (and parents) if it does not exist and returns its
// absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// NewWorkDir creates a fresh directory under base (os.TempDir() when base is
// empty) whose name is prefix followed by a random uuid. Every backup or
// restore call gets its own work dir so concurrent calls never share files.
func NewWorkDir(base, prefix string) (string, error) {
	if base == "" {
		base = os.TempDir()
	}

	base, err := EnsureDir(base)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(base, prefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
