package jsdoc

import "slices"

// Spacing controls how multi-line text is joined.
type Spacing int

const (
	// SpacingCompact joins lines with single spaces and drops blank lines.
	SpacingCompact Spacing = iota
	// SpacingPreserve keeps line breaks and interior whitespace.
	SpacingPreserve
)

// Options configures a Parser call.
type Options struct {
	Spacing Spacing
}

// Tag is one @tag annotation. Absent fields are empty strings.
type Tag struct {
	Tag         string `json:"tag"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Optional    bool   `json:"optional,omitempty"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description"`
}

// Block is one parsed comment block.
type Block struct {
	Description string `json:"description"`
	Tags        []Tag  `json:"tags"`
}

// Parser parses every comment block found in source.
type Parser interface {
	Parse(source string, opts Options) ([]Block, error)
}

// All returns the tags named by any of names, in source order.
func (b Block) All(names ...string) []Tag {
	var tags []Tag
	for _, tag := range b.Tags {
		if slices.Contains(names, tag.Tag) {
			tags = append(tags, tag)
		}
	}

	return tags
}

// First returns the first tag named by any of names.
func (b Block) First(names ...string) (Tag, bool) {
	for _, tag := range b.Tags {
		if slices.Contains(names, tag.Tag) {
			return tag, true
		}
	}

	return Tag{}, false
}

// Has reports whether the block carries a tag named by any of names.
func (b Block) Has(names ...string) bool {
	_, ok := b.First(names...)
	return ok
}
