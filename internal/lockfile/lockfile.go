// Package lockfile records what the last generation run wrote, so unchanged
// pages are not rewritten and pages of vanished classes can be removed.
package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/atomicfile"
	"github.com/g5becks/ahkdoc/internal/errcode"
)

const (
	FileName       = ".ahkdoc.lock"
	currentVersion = 1
)

type LockFile struct {
	Version     int               `json:"version"`
	Input       *InputEntry       `json:"input,omitempty"`
	Options     string            `json:"options,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Pages       map[string]string `json:"pages"`
}

// InputEntry identifies the input a run was generated from.
type InputEntry struct {
	Location string `json:"location"`
	SHA256   string `json:"sha256,omitempty"`
	ETag     string `json:"etag,omitempty"`
	LastMod  string `json:"last_modified,omitempty"`
}

func Load(outputDir string) (*LockFile, error) {
	lockPath := filepath.Join(outputDir, FileName)
	data, err := os.ReadFile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}

		return nil, oops.
			Code(errcode.LockError).
			With("path", lockPath).
			Wrapf(err, "reading lock file")
	}

	lock := &LockFile{}
	if unmarshalErr := json.Unmarshal(data, lock); unmarshalErr != nil {
		return nil, oops.
			Code(errcode.LockError).
			With("path", lockPath).
			Hint("Delete the lock file or run 'ahkdoc generate --force' to regenerate it").
			Wrapf(unmarshalErr, "parsing lock file")
	}

	if lock.Version == 0 {
		lock.Version = currentVersion
	}

	if lock.Pages == nil {
		lock.Pages = map[string]string{}
	}

	return lock, nil
}

func New() *LockFile {
	return &LockFile{
		Version: currentVersion,
		Pages:   map[string]string{},
	}
}

func (l *LockFile) Save(outputDir string) error {
	if l == nil {
		return oops.
			Code(errcode.LockError).
			Hint("Initialize lock file state before saving").
			Errorf("cannot save nil lock file")
	}

	if l.Version == 0 {
		l.Version = currentVersion
	}

	if l.Pages == nil {
		l.Pages = map[string]string{}
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return oops.
			Code(errcode.LockError).
			With("path", outputDir).
			Wrapf(err, "creating lock directory")
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return oops.
			Code(errcode.LockError).
			Wrapf(err, "encoding lock file")
	}

	if writeErr := atomicfile.Write(filepath.Join(outputDir, FileName), append(data, '\n')); writeErr != nil {
		return oops.
			Code(errcode.LockError).
			With("path", outputDir).
			Wrapf(writeErr, "saving lock file")
	}

	return nil
}

// Hash returns the hex sha256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (l *LockFile) PageHash(file string) string {
	if l == nil {
		return ""
	}

	return l.Pages[file]
}

func (l *LockFile) SetPage(file string, hash string) {
	if l == nil {
		return
	}

	if l.Pages == nil {
		l.Pages = map[string]string{}
	}

	l.Pages[file] = hash
}

func (l *LockFile) RemovePage(file string) {
	if l == nil || l.Pages == nil {
		return
	}

	delete(l.Pages, file)
}

// Files lists the recorded page files in sorted order.
func (l *LockFile) Files() []string {
	if l == nil {
		return nil
	}

	files := make([]string, 0, len(l.Pages))
	for file := range l.Pages {
		files = append(files, file)
	}

	slices.Sort(files)
	return files
}

// Stale lists recorded page files that are not in keep.
func (l *LockFile) Stale(keep map[string]bool) []string {
	var stale []string
	for _, file := range l.Files() {
		if !keep[file] {
			stale = append(stale, file)
		}
	}

	return stale
}

// UpToDate reports whether a run over input with the given options
// fingerprint would reproduce this lock.
func (l *LockFile) UpToDate(input InputEntry, options string) bool {
	if l == nil || l.Input == nil || l.Options != options || len(l.Pages) == 0 {
		return false
	}

	if l.Input.Location != input.Location {
		return false
	}

	return input.SHA256 != "" && l.Input.SHA256 == input.SHA256
}
