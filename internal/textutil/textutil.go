// Package textutil holds the small text transformations shared by the
// builder and the renderer.
package textutil

import (
	"strings"
	"unicode"
)

const indentWidth = 2

// descriptionCutset is stripped from both ends of resolved descriptions.
const descriptionCutset = "-_ \t\n"

// NormalizeLineEndings converts CRLF and lone CR line breaks to LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// IsUpperCase reports whether every rune of s is an upper-case letter,
// whitespace, punctuation or a symbol. Constant-style names such as
// MAX_VALUE match.
func IsUpperCase(s string) bool {
	for _, r := range s {
		switch {
		case unicode.IsUpper(r), unicode.IsSpace(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			continue
		default:
			return false
		}
	}

	return true
}

// Indent prefixes every non-empty line of s with level*2 spaces.
func Indent(s string, level int) string {
	if level <= 0 || strings.TrimSpace(s) == "" {
		return s
	}

	prefix := strings.Repeat(" ", level*indentWidth)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}

		lines[i] = prefix + line
	}

	return strings.Join(lines, "\n")
}

// TrimDescription strips leading and trailing dashes, underscores and
// whitespace.
func TrimDescription(s string) string {
	return strings.Trim(s, descriptionCutset)
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
