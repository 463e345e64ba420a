package jsdoc

import (
	"strings"

	"github.com/g5becks/ahkdoc/internal/textutil"
)

// FormatBlock wraps raw comment text in /** */ delimiters with a " * "
// prefix on every interior line.
func FormatBlock(raw string) string {
	body := strings.ReplaceAll(textutil.NormalizeLineEndings(raw), "\n", "\n * ")
	return textutil.NormalizeLineEndings("/**\n * " + body + "\n */")
}

// ParseTags runs p over block with preserved spacing and returns the first
// parsed block. An input without any block yields an empty Block.
func ParseTags(p Parser, block string) (Block, error) {
	blocks, err := p.Parse(block, Options{Spacing: SpacingPreserve})
	if err != nil {
		return Block{}, err
	}

	if len(blocks) == 0 {
		return Block{}, nil
	}

	return blocks[0], nil
}
