package search

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/manifest"
)

const maxLineLength = 1024 * 1024

// ContentResult is a single matching line of a generated page.
type ContentResult struct {
	Class string `json:"class"`
	File  string `json:"file"`
	Line  int    `json:"line"`
	Text  string `json:"text"`
}

// ContentOptions configures content search.
type ContentOptions struct {
	OutputDir string
	Query     string
	Class     string
	UseRegex  bool
	Limit     int
}

type lineMatcher func(line string) bool

// Content performs a literal, case-insensitive search, or a regular
// expression search, across the generated pages listed in m.
func Content(m *manifest.Manifest, opts ContentOptions) ([]ContentResult, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, oops.
			Code(errcode.InvalidArgs).
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	match, err := newMatcher(query, opts.UseRegex)
	if err != nil {
		return nil, err
	}

	pages, err := selectPages(m, opts.Class)
	if err != nil {
		return nil, err
	}

	var results []ContentResult
	for _, page := range pages {
		remaining := 0
		if opts.Limit > 0 {
			remaining = opts.Limit - len(results)
			if remaining <= 0 {
				break
			}
		}

		pageResults, scanErr := scanPage(filepath.Join(opts.OutputDir, page.File), page, match, remaining)
		if scanErr != nil {
			return nil, scanErr
		}

		results = append(results, pageResults...)
	}

	return results, nil
}

func newMatcher(query string, useRegex bool) (lineMatcher, error) {
	if !useRegex {
		lowered := strings.ToLower(query)
		return func(line string) bool {
			return strings.Contains(strings.ToLower(line), lowered)
		}, nil
	}

	re, err := regexp.Compile(query)
	if err != nil {
		return nil, oops.
			Code(errcode.InvalidArgs).
			With("pattern", query).
			Hint("Check the regular expression syntax or drop --regex").
			Wrapf(err, "compiling search pattern")
	}

	return re.MatchString, nil
}

func scanPage(path string, page *manifest.Page, match lineMatcher, limit int) ([]ContentResult, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, oops.
			With("path", path).
			Wrapf(err, "opening page")
	}
	defer file.Close()

	var results []ContentResult

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		text := scanner.Text()
		if !match(text) {
			continue
		}

		results = append(results, ContentResult{
			Class: page.Class,
			File:  page.File,
			Line:  lineNo,
			Text:  strings.TrimSpace(text),
		})

		if limit > 0 && len(results) >= limit {
			break
		}
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return nil, oops.
			With("path", path).
			Wrapf(scanErr, "reading page")
	}

	return results, nil
}
