// Package outline extracts the heading structure of generated reference
// pages.
package outline

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

const (
	setextH1Level = 1
	setextH2Level = 2
)

var headerID = regexp.MustCompile(`\s+:id=(\S+)$`)

type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"`
	Line  int    `json:"line"`
}

// Outline summarizes one page: its title, the first paragraph under the
// title and every heading.
type Outline struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Headings    []Heading `json:"headings,omitempty"`
	Lines       int       `json:"lines"`
}

// Extract parses a Markdown page.
func Extract(content []byte) *Outline {
	content = stripBOM(content)

	mdParser := parser.NewWithExtensions(parser.CommonExtensions)
	doc := mdParser.Parse(content)

	out := &Outline{Lines: bytes.Count(content, []byte("\n")) + 1}
	walk(doc, out)
	assignHeadingLineNumbers(out.Headings, content)

	return out
}

func walk(doc ast.Node, out *Outline) {
	foundH1 := false

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		switch n := node.(type) {
		case *ast.Heading:
			text, id := splitHeaderID(extractText(n))
			if text == "" {
				return ast.SkipChildren
			}

			out.Headings = append(out.Headings, Heading{Level: n.Level, Text: text, ID: id})
			if n.Level == 1 && !foundH1 {
				out.Title = text
				foundH1 = true
			}

			return ast.SkipChildren

		case *ast.Paragraph:
			if foundH1 && out.Description == "" && len(out.Headings) == 1 {
				out.Description = extractText(n)
			}

			return ast.SkipChildren
		}

		return ast.GoToNext
	})
}

func splitHeaderID(text string) (string, string) {
	match := headerID.FindStringSubmatchIndex(text)
	if match == nil {
		return text, ""
	}

	return strings.TrimSpace(text[:match[0]]), text[match[2]:match[3]]
}

func extractText(node ast.Node) string {
	var buf strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		switch leaf := n.(type) {
		case *ast.Text:
			buf.Write(leaf.Literal)
		case *ast.Code:
			buf.Write(leaf.Literal)
		}

		return ast.GoToNext
	})

	return strings.Join(strings.Fields(buf.String()), " ")
}

// assignHeadingLineNumbers scans content for heading markers and assigns
// the line number of each heading in document order. gomarkdown's AST does
// not record source positions.
func assignHeadingLineNumbers(headings []Heading, content []byte) {
	if len(headings) == 0 {
		return
	}

	lines := bytes.Split(content, []byte("\n"))
	hi := 0
	inFenced := false

	for lineIdx := 0; lineIdx < len(lines) && hi < len(headings); lineIdx++ {
		line := lines[lineIdx]
		trimmed := bytes.TrimSpace(line)

		if isFenceMarker(trimmed) {
			inFenced = !inFenced
			continue
		}
		if inFenced {
			continue
		}

		if level := atxHeadingLevel(line); level == headings[hi].Level {
			headings[hi].Line = lineIdx + 1
			hi++
			continue
		}

		if level := setextHeadingLevel(lines, lineIdx, trimmed); level == headings[hi].Level {
			headings[hi].Line = lineIdx + 1
			hi++
		}
	}
}

func isFenceMarker(trimmed []byte) bool {
	return bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~"))
}

// atxHeadingLevel returns 1-6 for an ATX heading line and 0 otherwise.
func atxHeadingLevel(line []byte) int {
	spaces := 0
	for spaces < len(line) && spaces < 4 && line[spaces] == ' ' {
		spaces++
	}
	if spaces >= 4 || spaces >= len(line) || line[spaces] != '#' {
		return 0
	}

	level := 0
	for spaces+level < len(line) && level < 7 && line[spaces+level] == '#' {
		level++
	}
	if level >= 1 && level <= 6 && spaces+level < len(line) && line[spaces+level] == ' ' {
		return level
	}
	return 0
}

func setextHeadingLevel(lines [][]byte, lineIdx int, trimmed []byte) int {
	if lineIdx+1 >= len(lines) || len(trimmed) == 0 {
		return 0
	}
	nextTrimmed := bytes.TrimSpace(lines[lineIdx+1])
	if allSameChar(nextTrimmed, '=') {
		return setextH1Level
	}
	if allSameChar(nextTrimmed, '-') {
		return setextH2Level
	}
	return 0
}

func allSameChar(b []byte, ch byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c != ch {
			return false
		}
	}
	return true
}

func stripBOM(content []byte) []byte {
	return bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
}
