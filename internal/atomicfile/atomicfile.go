// Package atomicfile replaces files through a temporary sibling and a rename,
// so readers never observe a partially written file.
package atomicfile

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// Write replaces path with data. The parent directory must exist.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return oops.
			With("path", path).
			Wrapf(err, "creating temporary file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(data); writeErr != nil {
		_ = tempFile.Close()
		return oops.
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary file")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return oops.
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary file")
	}

	if chmodErr := os.Chmod(tempPath, 0o644); chmodErr != nil {
		return oops.
			With("path", tempPath).
			Wrapf(chmodErr, "setting file mode")
	}

	if renameErr := os.Rename(tempPath, path); renameErr != nil {
		return oops.
			With("from", tempPath).
			With("to", path).
			Wrapf(renameErr, "replacing %s", filepath.Base(path))
	}

	return nil
}
