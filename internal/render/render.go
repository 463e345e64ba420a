// Package render turns documentation entities into Markdown pages.
package render

import (
	"strings"

	"github.com/g5becks/ahkdoc/internal/link"
	"github.com/g5becks/ahkdoc/internal/model"
	"github.com/g5becks/ahkdoc/internal/textutil"
)

const (
	// FileExt is the extension of rendered pages.
	FileExt = ".md"

	anyType        = "Any"
	staticIDPrefix = "static-"
	methodRule     = "\n\n---\n\n"
)

// Options controls page rendering.
type Options struct {
	// IncludeHeaderIDs appends " :id=<id>" to member headers.
	IncludeHeaderIDs bool
	// Links builds cross-page URIs. A nil resolver uses link.DefaultBaseURI.
	Links *link.Resolver
}

// FileName returns the page file name of a class.
func FileName(className string) string {
	return strings.ToLower(className) + FileExt
}

type renderer struct {
	known *model.Set
	opts  Options
	links *link.Resolver
}

// Class renders one class page. known is the complete class set of the run
// and decides which type names become links. Class is pure: equal inputs
// give byte-identical output.
func Class(class *model.DocClass, known *model.Set, opts Options) string {
	r := renderer{known: known, opts: opts, links: opts.Links}
	if r.links == nil {
		r.links = link.NewResolver(link.DefaultBaseURI)
	}

	blocks := []string{"# " + class.Name}

	if !textutil.IsBlank(class.Description) {
		blocks = append(blocks, textutil.Indent(class.Description, 1))
	}

	if class.Extends != "" {
		blocks = append(blocks, "**Extends:** "+r.classRef(class.Extends))
	}

	if ShowsConstructor(class) {
		blocks = append(blocks, "## Constructor", r.constructor(class.Name, class.Constructor))
	}

	if props := VisibleProperties(class.Properties); len(props) > 0 {
		entries := make([]string, 0, len(props))
		for _, p := range props {
			entries = append(entries, r.property(p))
		}

		blocks = append(blocks, "## Properties", strings.Join(entries, "\n\n"))
	}

	if len(class.Methods) > 0 {
		entries := make([]string, 0, len(class.Methods))
		for _, m := range class.Methods {
			entries = append(entries, r.method(m))
		}

		blocks = append(blocks, "## Methods", strings.Join(entries, methodRule))
	}

	page := textutil.NormalizeLineEndings(strings.Join(blocks, "\n\n"))
	return textutil.TrimDescription(page)
}

// ShowsConstructor reports whether the page of class has a constructor
// section. Undocumented constructors are left out.
func ShowsConstructor(class *model.DocClass) bool {
	return class.Constructor != nil && !textutil.IsBlank(class.Constructor.Description)
}

// VisibleProperties drops constant-style names such as MAX_SIZE.
func VisibleProperties(props []model.DocProperty) []model.DocProperty {
	visible := make([]model.DocProperty, 0, len(props))
	for _, p := range props {
		if textutil.IsUpperCase(p.Name) {
			continue
		}

		visible = append(visible, p)
	}

	return visible
}

func (r renderer) constructor(className string, ctor *model.DocMethod) string {
	header := "### " + className + "(" + model.Signature(ctor.Parameters) + ")" +
		r.headerID(ctor.Name, ctor.IsStatic)

	blocks := []string{header, textutil.Indent(ctor.Description, 1)}
	blocks = append(blocks, r.details(ctor.Parameters, ctor.Throws, ctor.Returns)...)

	return strings.Join(blocks, "\n\n")
}

func (r renderer) method(m model.DocMethod) string {
	header := "### " + staticMarker(m.IsStatic) + m.Name + "(" + model.Signature(m.Parameters) + ")" +
		r.headerID(m.Name, m.IsStatic)

	blocks := []string{header}
	if !textutil.IsBlank(m.Description) {
		blocks = append(blocks, textutil.Indent(m.Description, 1))
	}

	blocks = append(blocks, r.details(m.Parameters, m.Throws, m.Returns)...)
	return strings.Join(blocks, "\n\n")
}

func (r renderer) property(p model.DocProperty) string {
	name := p.Name
	if len(p.Parameters) > 0 {
		name += "[" + model.Signature(p.Parameters) + "]"
	}

	blocks := []string{
		"### " + staticMarker(p.IsStatic) + name + r.headerID(p.Name, p.IsStatic),
		"**Type:** " + r.typeRef(p.Type),
	}

	if !textutil.IsBlank(p.Description) {
		blocks = append(blocks, textutil.Indent(p.Description, 1))
	}

	blocks = append(blocks, r.details(p.Parameters, nil, nil)...)
	return strings.Join(blocks, "\n\n")
}

// details renders the parameter, throws and returns blocks shared by
// methods, constructors and indexed properties.
func (r renderer) details(params []model.DocParameter, throws []model.DocValue, returns *model.DocValue) []string {
	var blocks []string

	if len(params) > 0 {
		items := make([]string, 0, len(params))
		for _, p := range params {
			items = append(items, r.parameter(p))
		}

		blocks = append(blocks, "**Parameters:**", strings.Join(items, "\n"))
	}

	if len(throws) > 0 {
		items := make([]string, 0, len(throws))
		for _, v := range throws {
			items = append(items, "- "+r.value(v))
		}

		blocks = append(blocks, "**Throws:**", strings.Join(items, "\n"))
	}

	if returns != nil {
		blocks = append(blocks, "**Returns:** "+r.value(*returns))
	}

	return blocks
}

func (r renderer) parameter(p model.DocParameter) string {
	marker := "(required)"
	if p.IsOptional {
		marker = "(optional, default `" + p.DefaultValue + "`)"
	}

	item := "- `" + p.Name + "` " + marker + ": " + r.typeRef(p.Type)
	return item + describe(p.Description)
}

func (r renderer) value(v model.DocValue) string {
	return r.typeRef(v.Type) + describe(v.Description)
}

func describe(description string) string {
	if textutil.IsBlank(description) {
		return ""
	}

	return " - " + hanging(description)
}

// hanging indents every line after the first so multi-line text stays
// inside its list item.
func hanging(s string) string {
	first, rest, ok := strings.Cut(s, "\n")
	if !ok {
		return s
	}

	return first + "\n" + textutil.Indent(rest, 1)
}

// typeRef renders a type expression. Union members separated by | are
// resolved one by one.
func (r renderer) typeRef(typ string) string {
	if textutil.IsBlank(typ) {
		return "`" + anyType + "`"
	}

	parts := strings.Split(typ, "|")
	for i, part := range parts {
		parts[i] = r.classRef(strings.TrimSpace(part))
	}

	return strings.Join(parts, " | ")
}

// classRef links name when it is a class of this run.
func (r renderer) classRef(name string) string {
	if r.known.Has(name) {
		return "[" + name + "](" + r.links.SymbolURI(name, true) + ")"
	}

	return "`" + name + "`"
}

func (r renderer) headerID(name string, isStatic bool) string {
	if !r.opts.IncludeHeaderIDs {
		return ""
	}

	id := strings.ToLower(name)
	if isStatic {
		id = staticIDPrefix + id
	}

	return " :id=" + id
}

func staticMarker(isStatic bool) string {
	if isStatic {
		return "`static` "
	}

	return ""
}
