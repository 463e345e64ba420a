// Package manifest maintains manifest.json, the index of generated pages
// that the list, search and outline commands read.
package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/atomicfile"
	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/outline"
)

const (
	CurrentVersion = "1.0.0"
	ManifestFile   = "manifest.json"
)

type Manifest struct {
	Version   string    `json:"version"`
	Generated time.Time `json:"generated"`
	Input     string    `json:"input"`
	BaseURI   string    `json:"base_uri"`
	Pages     []Page    `json:"pages"`
}

// Page describes one generated class page.
type Page struct {
	Class       string           `json:"class"`
	File        string           `json:"file"`
	Description string           `json:"description"`
	Extends     string           `json:"extends,omitempty"`
	Size        int64            `json:"size"`
	Methods     int              `json:"methods"`
	Properties  int              `json:"properties"`
	Members     []Member         `json:"members,omitempty"`
	Outline     *outline.Outline `json:"outline,omitempty"`
}

type MemberKind string

const (
	KindConstructor MemberKind = "constructor"
	KindMethod      MemberKind = "method"
	KindProperty    MemberKind = "property"
)

// Member is one documented member of a page together with its link.
type Member struct {
	Name   string     `json:"name"`
	Kind   MemberKind `json:"kind"`
	Static bool       `json:"static,omitempty"`
	URI    string     `json:"uri"`
}

func New() *Manifest {
	return &Manifest{
		Version:   CurrentVersion,
		Generated: time.Now(),
		Pages:     []Page{},
	}
}

func Load(outputDir string) (*Manifest, error) {
	manifestPath := ManifestPath(outputDir)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code(errcode.ManifestNotFound).
				With("path", manifestPath).
				Hint("Run 'ahkdoc generate' to generate the manifest").
				Errorf("manifest not found at %q", manifestPath)
		}

		return nil, oops.
			Code(errcode.ManifestNotFound).
			With("path", manifestPath).
			Wrapf(err, "reading manifest file")
	}

	m := &Manifest{}
	if unmarshalErr := json.Unmarshal(data, m); unmarshalErr != nil {
		return nil, oops.
			Code(errcode.ManifestInvalid).
			With("path", manifestPath).
			Hint("Run 'ahkdoc generate --force' to rebuild the manifest").
			Wrapf(unmarshalErr, "parsing manifest file")
	}

	if m.Pages == nil {
		m.Pages = []Page{}
	}

	return m, nil
}

func (m *Manifest) Save(outputDir string) error {
	if m == nil {
		return oops.
			Code(errcode.ManifestWrite).
			Hint("Initialize manifest before saving").
			Errorf("cannot save nil manifest")
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return oops.
			Code(errcode.ManifestWrite).
			With("path", outputDir).
			Wrapf(err, "creating manifest directory")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return oops.
			Code(errcode.ManifestWrite).
			Wrapf(err, "encoding manifest")
	}

	if writeErr := atomicfile.Write(ManifestPath(outputDir), append(data, '\n')); writeErr != nil {
		return oops.
			Code(errcode.ManifestWrite).
			With("path", outputDir).
			Wrapf(writeErr, "saving manifest")
	}

	return nil
}

// Lookup finds a page by class name or file name, ignoring case.
func (m *Manifest) Lookup(name string) (*Page, bool) {
	if m == nil {
		return nil, false
	}

	for i := range m.Pages {
		page := &m.Pages[i]
		if strings.EqualFold(page.Class, name) || strings.EqualFold(page.File, name) {
			return page, true
		}
	}

	return nil, false
}

func ManifestPath(outputDir string) string {
	return filepath.Join(outputDir, ManifestFile)
}
