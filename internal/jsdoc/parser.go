package jsdoc

import (
	"strings"
	"unicode"

	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/textutil"
)

const (
	blockStart = "/**"
	blockEnd   = "*/"
)

// namedTags are the tags whose value starts with a name token.
var namedTags = map[string]struct{}{
	"param":    {},
	"arg":      {},
	"argument": {},
	"prop":     {},
	"property": {},
}

type commentParser struct{}

// NewParser returns the built-in tag-block parser. It understands
// "@tag {type} name description" where type and name are optional, a name
// may be written as [name] or [name=default], and continuation lines belong
// to the preceding tag.
func NewParser() Parser {
	return commentParser{}
}

func (commentParser) Parse(source string, opts Options) ([]Block, error) {
	source = textutil.NormalizeLineEndings(source)

	var blocks []Block
	for {
		start := strings.Index(source, blockStart)
		if start == -1 {
			return blocks, nil
		}

		rest := source[start+len(blockStart):]
		end := strings.Index(rest, blockEnd)
		if end == -1 {
			return nil, oops.
				Code(errcode.TagParseFailed).
				With("offset", start).
				Errorf("unterminated comment block")
		}

		block, err := parseBlock(rest[:end], opts)
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, block)
		source = rest[end+len(blockEnd):]
	}
}

func parseBlock(body string, opts Options) (Block, error) {
	var (
		descLines []string
		tagLines  [][]string
	)

	for _, line := range stripMarkers(body) {
		if isTagLine(line) {
			tagLines = append(tagLines, []string{strings.TrimSpace(line)})
			continue
		}

		if len(tagLines) == 0 {
			descLines = append(descLines, line)
			continue
		}

		last := len(tagLines) - 1
		tagLines[last] = append(tagLines[last], line)
	}

	block := Block{
		Description: joinLines(descLines, opts.Spacing),
		Tags:        make([]Tag, 0, len(tagLines)),
	}

	for _, lines := range tagLines {
		tag, err := parseTag(lines, opts.Spacing)
		if err != nil {
			return Block{}, err
		}

		block.Tags = append(block.Tags, tag)
	}

	return block, nil
}

// stripMarkers removes the leading "*" of every line and one space after it.
func stripMarkers(body string) []string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if marker, ok := strings.CutPrefix(trimmed, "*"); ok {
			trimmed = marker
		} else if i > 0 {
			lines[i] = strings.TrimRight(line, " \t")
			continue
		}

		trimmed = strings.TrimPrefix(trimmed, " ")
		lines[i] = strings.TrimRight(trimmed, " \t")
	}

	return lines
}

func isTagLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < 2 || trimmed[0] != '@' {
		return false
	}

	return unicode.IsLetter(rune(trimmed[1]))
}

func parseTag(lines []string, spacing Spacing) (Tag, error) {
	head := strings.TrimPrefix(lines[0], "@")
	nameEnd := strings.IndexFunc(head, func(r rune) bool {
		return unicode.IsSpace(r) || r == '{'
	})
	if nameEnd == -1 {
		nameEnd = len(head)
	}

	tag := Tag{Tag: head[:nameEnd]}
	value := strings.Join(append([]string{head[nameEnd:]}, lines[1:]...), "\n")
	value = strings.TrimLeft(value, " \t")

	// {@link ...} opens an inline tag, not a type.
	if strings.HasPrefix(value, "{") && !strings.HasPrefix(value, "{@") {
		typ, remaining, err := splitBalanced(value, '{', '}')
		if err != nil {
			return Tag{}, oops.
				Code(errcode.TagParseFailed).
				With("tag", tag.Tag).
				Wrapf(err, "parsing type of @%s", tag.Tag)
		}

		tag.Type = strings.TrimSpace(typ)
		value = strings.TrimLeft(remaining, " \t")
	}

	if _, named := namedTags[tag.Tag]; named {
		value = parseName(&tag, value)
	}

	tag.Description = joinLines(strings.Split(value, "\n"), spacing)
	return tag, nil
}

func parseName(tag *Tag, value string) string {
	if strings.HasPrefix(value, "[") {
		inner, remaining, err := splitBalanced(value, '[', ']')
		if err == nil {
			name, def, hasDefault := strings.Cut(inner, "=")
			tag.Name = strings.TrimSpace(name)
			tag.Optional = true
			if hasDefault {
				tag.Default = strings.TrimSpace(def)
			}

			return strings.TrimLeft(remaining, " \t")
		}
	}

	end := strings.IndexFunc(value, unicode.IsSpace)
	if end == -1 {
		tag.Name = value
		return ""
	}

	tag.Name = value[:end]
	return strings.TrimLeft(value[end:], " \t")
}

// splitBalanced expects s to start with open and returns the text inside the
// matching close along with what follows it.
func splitBalanced(s string, open, closing byte) (string, string, error) {
	depth := 0
	for i := range len(s) {
		switch s[i] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], nil
			}
		}
	}

	return "", "", oops.Errorf("unbalanced %q", string(open))
}

func joinLines(lines []string, spacing Spacing) string {
	if spacing == SpacingPreserve {
		return strings.TrimSpace(strings.Join(lines, "\n"))
	}

	fields := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}

	return strings.Join(fields, " ")
}
