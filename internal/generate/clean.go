package generate

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/config"
	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/lockfile"
	"github.com/g5becks/ahkdoc/internal/manifest"
)

// Clean removes the files recorded by the last run: its pages, the
// manifest, the intermediate JSON and the lock file. Files the lock does not
// know about are left alone, and the output directory is removed only when
// it ends up empty. It returns the removed paths relative to the output
// directory.
func Clean(cfg *config.Config, dryRun bool) ([]string, error) {
	if cfg == nil {
		return nil, oops.
			Code(errcode.ConfigInvalid).
			Errorf("config is required")
	}

	lock, err := lockfile.Load(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	candidates := lock.Files()
	candidates = append(candidates, manifest.ManifestFile, IntermediateFile, lockfile.FileName)

	var removed []string
	for _, file := range candidates {
		path := filepath.Join(cfg.OutputDir, file)
		if !fileExists(path) {
			continue
		}

		if !dryRun {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				return removed, oops.
					Code(errcode.WriteFailed).
					With("path", path).
					Wrapf(rmErr, "removing %s", file)
			}
		}

		removed = append(removed, file)
	}

	if !dryRun {
		// Fails unless the directory is empty.
		_ = os.Remove(cfg.OutputDir)
	}

	return removed, nil
}
