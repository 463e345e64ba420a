package manifest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/manifest"
)

func TestNew(t *testing.T) {
	m := manifest.New()

	if m.Version != manifest.CurrentVersion {
		t.Errorf("Version = %q, want %q", m.Version, manifest.CurrentVersion)
	}

	if m.Pages == nil {
		t.Error("Pages should be initialized")
	}

	if m.Generated.IsZero() {
		t.Error("Generated time should be set")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	original := manifest.New()
	original.Generated = time.Now().Truncate(time.Second)
	original.Input = "classes.json"
	original.BaseURI = "."
	original.Pages = append(original.Pages, manifest.Page{
		Class:       "Collection",
		File:        "collection.md",
		Description: "Ordered storage.",
		Extends:     "Base",
		Size:        512,
		Methods:     2,
		Members: []manifest.Member{
			{Name: "Add", Kind: manifest.KindMethod, URI: "./collection?id=add"},
		},
	})

	if err := original.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Version != original.Version {
		t.Errorf("Version = %q, want %q", loaded.Version, original.Version)
	}

	if loaded.Input != "classes.json" {
		t.Errorf("Input = %q, want classes.json", loaded.Input)
	}

	if len(loaded.Pages) != 1 {
		t.Fatalf("Pages count = %d, want 1", len(loaded.Pages))
	}

	page := loaded.Pages[0]
	if page.Class != "Collection" || page.Extends != "Base" {
		t.Errorf("Page = %+v, want Collection extending Base", page)
	}

	if len(page.Members) != 1 || page.Members[0].Kind != manifest.KindMethod {
		t.Errorf("Members = %+v, want one method", page.Members)
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := manifest.Load(t.TempDir())
	if err == nil {
		t.Fatal("Load() should return error for non-existent manifest")
	}

	if !strings.Contains(err.Error(), "manifest not found") {
		t.Errorf("Error should mention manifest not found, got: %v", err)
	}

	if code := errcode.Of(err); code != errcode.ManifestNotFound {
		t.Errorf("code = %q, want %q", code, errcode.ManifestNotFound)
	}
}

func TestLoadCorrupted(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(manifest.ManifestPath(dir), []byte("invalid json{"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := manifest.Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for corrupted manifest")
	}

	if !strings.Contains(err.Error(), "parsing manifest") {
		t.Errorf("Error should mention parsing manifest, got: %v", err)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	subdir := filepath.Join(t.TempDir(), "nested", "path")

	if err := manifest.New().Save(subdir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(manifest.ManifestPath(subdir)); err != nil {
		t.Errorf("Manifest file should exist at %q", manifest.ManifestPath(subdir))
	}
}

func TestSaveNilManifest(t *testing.T) {
	var m *manifest.Manifest
	err := m.Save(t.TempDir())
	if err == nil {
		t.Fatal("Save() should return error for nil manifest")
	}

	if !strings.Contains(err.Error(), "cannot save nil manifest") {
		t.Errorf("Error should mention nil manifest, got: %v", err)
	}
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()

	if err := manifest.New().Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp") {
			t.Errorf("Temp file should be cleaned up: %s", entry.Name())
		}
	}
}

func TestLookup(t *testing.T) {
	m := manifest.New()
	m.Pages = append(m.Pages,
		manifest.Page{Class: "Collection", File: "collection.md"},
		manifest.Page{Class: "Base", File: "base.md"},
	)

	for _, name := range []string{"Collection", "collection", "COLLECTION.md"} {
		page, ok := m.Lookup(name)
		if !ok || page.Class != "Collection" {
			t.Errorf("Lookup(%q) = %+v, %v, want Collection", name, page, ok)
		}
	}

	if _, ok := m.Lookup("Missing"); ok {
		t.Error("Lookup(Missing) found a page")
	}

	var nilManifest *manifest.Manifest
	if _, ok := nilManifest.Lookup("Base"); ok {
		t.Error("nil manifest Lookup found a page")
	}
}
