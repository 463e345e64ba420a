package manifest_test

import (
	"strings"
	"testing"

	"github.com/g5becks/ahkdoc/internal/link"
	"github.com/g5becks/ahkdoc/internal/manifest"
	"github.com/g5becks/ahkdoc/internal/model"
	"github.com/g5becks/ahkdoc/internal/render"
)

func collectionClass() *model.DocClass {
	return &model.DocClass{
		Name:        "Collection",
		Description: "Ordered storage.\nKeeps insertion order.\n\nSecond paragraph.",
		Extends:     "Base",
		Constructor: &model.DocMethod{Name: "__New", Description: "Creates a collection."},
		Properties: []model.DocProperty{
			{Name: "Count", IsStatic: true},
			{Name: "MAX_SIZE"},
		},
		Methods: []model.DocMethod{
			{Name: "Add"},
			{Name: "Clear"},
		},
	}
}

func TestNewPage(t *testing.T) {
	class := collectionClass()
	links := link.NewResolver("/api")
	content := render.Class(class, model.NewSet(class), render.Options{IncludeHeaderIDs: true, Links: links})

	page := manifest.NewPage(class, []byte(content), links)

	if page.File != "collection.md" {
		t.Errorf("File = %q, want collection.md", page.File)
	}

	if page.Description != "Ordered storage. Keeps insertion order." {
		t.Errorf("Description = %q", page.Description)
	}

	if page.Methods != 2 || page.Properties != 1 {
		t.Errorf("counts = %d methods, %d properties, want 2 and 1", page.Methods, page.Properties)
	}

	if page.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", page.Size, len(content))
	}

	want := []manifest.Member{
		{Name: "__New", Kind: manifest.KindConstructor, URI: "/api/collection?id=__new"},
		{Name: "Count", Kind: manifest.KindProperty, Static: true, URI: "/api/collection?id=static-count"},
		{Name: "Add", Kind: manifest.KindMethod, URI: "/api/collection?id=add"},
		{Name: "Clear", Kind: manifest.KindMethod, URI: "/api/collection?id=clear"},
	}

	if len(page.Members) != len(want) {
		t.Fatalf("Members = %+v, want %d entries", page.Members, len(want))
	}

	for i := range want {
		if page.Members[i] != want[i] {
			t.Errorf("Members[%d] = %+v, want %+v", i, page.Members[i], want[i])
		}
	}

	if page.Outline == nil || page.Outline.Title != "Collection" {
		t.Fatalf("Outline = %+v, want title Collection", page.Outline)
	}
}

func TestNewPageSkipsUndocumentedConstructor(t *testing.T) {
	class := collectionClass()
	class.Constructor.Description = ""

	page := manifest.NewPage(class, nil, nil)

	for _, m := range page.Members {
		if m.Kind == manifest.KindConstructor {
			t.Fatalf("Members contains constructor without a page section: %+v", m)
		}
	}

	if page.Members[0].URI != "./collection?id=static-count" {
		t.Errorf("URI = %q, want default base", page.Members[0].URI)
	}
}

func TestNewPageTruncatesDescription(t *testing.T) {
	class := &model.DocClass{Name: "Long", Description: strings.Repeat("word ", 100)}

	page := manifest.NewPage(class, nil, nil)

	if len([]rune(page.Description)) > 200 {
		t.Errorf("Description length = %d, want at most 200", len([]rune(page.Description)))
	}

	if !strings.HasSuffix(page.Description, "...") {
		t.Errorf("Description = %q, want ellipsis", page.Description)
	}
}
