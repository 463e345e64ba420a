package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/ahkdoc/internal/errcode"
)

func newCatCommand() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "Print a generated class page",
		ArgsUsage: "<class>",
		Flags: []cli.Flag{
			configFlag(),
			outputFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON with metadata",
			},
			&cli.BoolFlag{
				Name:  "no-line-numbers",
				Usage: "Don't show line numbers",
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Start at line N (0-based)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Show N lines (0 = all)",
			},
		},
		Action: catAction,
	}
}

type catOutput struct {
	Class   string `json:"class"`
	File    string `json:"file"`
	Lines   int    `json:"lines"`
	Size    int64  `json:"size"`
	Content string `json:"content"`
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
}

func catAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return oops.
			Code(errcode.InvalidArgs).
			Hint("Usage: ahkdoc cat <class>").
			Errorf("expected 1 argument, got %d", cmd.Args().Len())
	}

	offset := cmd.Int("offset")
	limit := cmd.Int("limit")
	if offset < 0 || limit < 0 {
		return oops.
			Code(errcode.InvalidArgs).
			Errorf("--offset and --limit must not be negative")
	}

	page, outputDir, err := lookupPage(cmd, cmd.Args().First())
	if err != nil {
		return err
	}

	fullPath := filepath.Join(outputDir, page.File)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return oops.
			Code(errcode.PageReadFailed).
			With("path", fullPath).
			Hint("Run 'ahkdoc generate' to rebuild the page").
			Wrapf(err, "reading page")
	}

	all := splitLines(string(content))
	lines := window(all, offset, limit)
	w := cmd.Root().Writer

	if cmd.Bool("json") {
		return outputCatJSON(w, catOutput{
			Class:   page.Class,
			File:    page.File,
			Lines:   len(all),
			Size:    page.Size,
			Content: strings.Join(lines, "\n"),
			Offset:  offset,
			Limit:   limit,
		})
	}

	outputCatText(w, lines, offset, !cmd.Bool("no-line-numbers"))
	return nil
}

// splitLines splits page content into lines without a trailing empty line
// for the final newline.
func splitLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return []string{}
	}

	return strings.Split(content, "\n")
}

func window(lines []string, offset, limit int) []string {
	if offset >= len(lines) {
		return []string{}
	}

	lines = lines[offset:]
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}

	return lines
}

func outputCatJSON(w io.Writer, output catOutput) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(output); err != nil {
		return oops.Wrapf(err, "encoding output")
	}

	return nil
}

func outputCatText(w io.Writer, lines []string, offset int, showLineNumbers bool) {
	for i, line := range lines {
		if showLineNumbers {
			_, _ = io.WriteString(w, formatWithLineNumber(offset+i+1, line))
		} else {
			_, _ = io.WriteString(w, line+"\n")
		}
	}
}

func formatWithLineNumber(lineNum int, content string) string {
	const lineNumWidth = 6
	const spacing = "  "
	return padLeft(lineNum, lineNumWidth) + spacing + content + "\n"
}

func padLeft(num, width int) string {
	s := strconv.Itoa(num)
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

