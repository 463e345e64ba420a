package manifest

import (
	"strings"

	"github.com/g5becks/ahkdoc/internal/link"
	"github.com/g5becks/ahkdoc/internal/model"
	"github.com/g5becks/ahkdoc/internal/outline"
	"github.com/g5becks/ahkdoc/internal/render"
	"github.com/g5becks/ahkdoc/internal/textutil"
)

const maxDescriptionLength = 200

// NewPage indexes the rendered content of class.
func NewPage(class *model.DocClass, content []byte, links *link.Resolver) Page {
	if links == nil {
		links = link.NewResolver(link.DefaultBaseURI)
	}

	props := render.VisibleProperties(class.Properties)

	page := Page{
		Class:       class.Name,
		File:        render.FileName(class.Name),
		Description: summary(class.Description),
		Extends:     class.Extends,
		Size:        int64(len(content)),
		Methods:     len(class.Methods),
		Properties:  len(props),
		Outline:     outline.Extract(content),
	}

	if render.ShowsConstructor(class) {
		page.Members = append(page.Members, Member{
			Name: class.Constructor.Name,
			Kind: KindConstructor,
			URI:  links.SymbolURI(class.Name+"."+class.Constructor.Name, false),
		})
	}

	for _, p := range props {
		page.Members = append(page.Members, Member{
			Name:   p.Name,
			Kind:   KindProperty,
			Static: p.IsStatic,
			URI:    links.SymbolURI(class.Name+"."+p.Name, p.IsStatic),
		})
	}

	for _, m := range class.Methods {
		page.Members = append(page.Members, Member{
			Name:   m.Name,
			Kind:   KindMethod,
			Static: m.IsStatic,
			URI:    links.SymbolURI(class.Name+"."+m.Name, m.IsStatic),
		})
	}

	return page
}

// summary keeps the first paragraph of a description on one line.
func summary(description string) string {
	first, _, _ := strings.Cut(textutil.NormalizeLineEndings(description), "\n\n")
	first = strings.Join(strings.Fields(first), " ")

	runes := []rune(first)
	if len(runes) > maxDescriptionLength {
		return strings.TrimSpace(string(runes[:maxDescriptionLength-3])) + "..."
	}

	return first
}
