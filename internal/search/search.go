// Package search finds classes, members and headings in the manifest of a
// generated reference, and text in the generated pages.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/manifest"
)

const (
	FieldClass       = "class"
	FieldMember      = "member"
	FieldHeading     = "heading"
	FieldDescription = "description"
)

// SymbolResult is a single match from symbol search.
type SymbolResult struct {
	Class       string `json:"class"`
	File        string `json:"file"`
	Member      string `json:"member,omitempty"`
	URI         string `json:"uri,omitempty"`
	Description string `json:"description,omitempty"`
	MatchField  string `json:"match_field"`
	MatchValue  string `json:"match_value"`
	Score       int    `json:"score"`
}

// SymbolOptions configures symbol search.
type SymbolOptions struct {
	Query string
	// Class restricts the search to one page.
	Class string
	Limit int
}

type indexEntry struct {
	page       *manifest.Page
	member     string
	uri        string
	matchField string
	matchValue string
}

type searchIndex struct {
	entries []indexEntry
}

func (s searchIndex) String(i int) string {
	return s.entries[i].matchValue
}

func (s searchIndex) Len() int {
	return len(s.entries)
}

// Symbols performs a fuzzy search over class names, members, headings and
// descriptions. Each page member is reported at most once, with its best
// score.
func Symbols(m *manifest.Manifest, opts SymbolOptions) ([]SymbolResult, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, oops.
			Code(errcode.InvalidArgs).
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	pages, err := selectPages(m, opts.Class)
	if err != nil {
		return nil, err
	}

	index := searchIndex{entries: buildIndex(pages)}
	matches := fuzzy.FindFrom(query, index)

	deduped := make(map[string]SymbolResult)
	for _, match := range matches {
		if match.Score < 0 {
			continue
		}

		entry := index.entries[match.Index]
		key := entry.page.File + "\x00" + entry.member

		if existing, exists := deduped[key]; !exists || match.Score > existing.Score {
			deduped[key] = SymbolResult{
				Class:       entry.page.Class,
				File:        entry.page.File,
				Member:      entry.member,
				URI:         entry.uri,
				Description: entry.page.Description,
				MatchField:  entry.matchField,
				MatchValue:  entry.matchValue,
				Score:       match.Score,
			}
		}
	}

	results := make([]SymbolResult, 0, len(deduped))
	for _, result := range deduped {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Class != results[j].Class {
			return results[i].Class < results[j].Class
		}
		return results[i].Member < results[j].Member
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

func selectPages(m *manifest.Manifest, class string) ([]*manifest.Page, error) {
	if class != "" {
		page, ok := m.Lookup(class)
		if !ok {
			return nil, oops.
				Code(errcode.ClassNotFound).
				With("class", class).
				Hint("Run 'ahkdoc list' to see generated classes").
				Errorf("class %q not found", class)
		}

		return []*manifest.Page{page}, nil
	}

	pages := make([]*manifest.Page, 0, len(m.Pages))
	for i := range m.Pages {
		pages = append(pages, &m.Pages[i])
	}

	return pages, nil
}

func buildIndex(pages []*manifest.Page) []indexEntry {
	var entries []indexEntry

	for _, page := range pages {
		entries = append(entries, indexEntry{
			page:       page,
			matchField: FieldClass,
			matchValue: page.Class,
		})

		if page.Description != "" {
			entries = append(entries, indexEntry{
				page:       page,
				matchField: FieldDescription,
				matchValue: page.Description,
			})
		}

		for _, member := range page.Members {
			entries = append(entries, indexEntry{
				page:       page,
				member:     member.Name,
				uri:        member.URI,
				matchField: FieldMember,
				matchValue: page.Class + "." + member.Name,
			})
		}

		if page.Outline == nil {
			continue
		}

		for _, heading := range page.Outline.Headings {
			if heading.Level == 1 {
				continue
			}

			entries = append(entries, indexEntry{
				page:       page,
				matchField: FieldHeading,
				matchValue: heading.Text,
			})
		}
	}

	return entries
}
