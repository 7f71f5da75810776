package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data readable by the owner only,
// creating missing parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o600)
}
