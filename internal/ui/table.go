package ui

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/oops"

	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/manifest"
	"github.com/g5becks/ahkdoc/internal/search"
)

const maxCellWidth = 60

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat resolves the --format and --json flags. --json wins.
func ParseFormat(value string, asJSON bool) (Format, error) {
	if asJSON {
		return FormatJSON, nil
	}

	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", oops.
			Code(errcode.InvalidArgs).
			With("format", value).
			Hint("Supported formats: table, json, csv").
			Errorf("unknown output format %q", value)
	}
}

type ListOptions struct {
	Format  Format
	Verbose bool
}

// RenderClassList prints the generated pages.
func RenderClassList(w io.Writer, pages []manifest.Page, opts ListOptions) error {
	switch opts.Format {
	case FormatJSON:
		return renderJSON(w, pages)
	case FormatCSV:
		rows := make([][]string, 0, len(pages))
		for _, page := range pages {
			rows = append(rows, []string{
				page.Class,
				page.File,
				page.Extends,
				strconv.Itoa(page.Methods),
				strconv.Itoa(page.Properties),
				page.Description,
			})
		}

		return renderCSV(w, []string{"class", "file", "extends", "methods", "properties", "description"}, rows)
	}

	writer := newTable(w)

	if opts.Verbose {
		writer.AppendHeader(table.Row{"CLASS", "FILE", "EXTENDS", "METHODS", "PROPERTIES", "DESCRIPTION"})
	} else {
		writer.AppendHeader(table.Row{"CLASS", "FILE", "DESCRIPTION"})
	}

	for _, page := range pages {
		if opts.Verbose {
			writer.AppendRow(table.Row{
				page.Class,
				page.File,
				page.Extends,
				page.Methods,
				page.Properties,
				truncate(page.Description),
			})
			continue
		}

		writer.AppendRow(table.Row{page.Class, page.File, truncate(page.Description)})
	}

	writer.Render()
	return nil
}

// RenderSymbolResults prints fuzzy search matches.
func RenderSymbolResults(w io.Writer, results []search.SymbolResult, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, results)
	case FormatCSV:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{
				r.Class,
				r.Member,
				r.File,
				r.URI,
				r.MatchField,
				r.MatchValue,
				strconv.Itoa(r.Score),
			})
		}

		return renderCSV(w, []string{"class", "member", "file", "uri", "match_field", "match_value", "score"}, rows)
	}

	writer := newTable(w)
	writer.AppendHeader(table.Row{"CLASS", "MEMBER", "MATCH", "LINK"})

	for _, r := range results {
		link := r.URI
		if link == "" {
			link = r.File
		}

		writer.AppendRow(table.Row{
			r.Class,
			r.Member,
			fmt.Sprintf("%s: %s", r.MatchField, truncate(r.MatchValue)),
			link,
		})
	}

	writer.Render()
	return nil
}

// RenderContentResults prints content search matches.
func RenderContentResults(w io.Writer, results []search.ContentResult, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, results)
	case FormatCSV:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Class, r.File, strconv.Itoa(r.Line), r.Text})
		}

		return renderCSV(w, []string{"class", "file", "line", "text"}, rows)
	}

	writer := newTable(w)
	writer.AppendHeader(table.Row{"FILE", "LINE", "TEXT"})

	for _, r := range results {
		writer.AppendRow(table.Row{r.File, r.Line, truncate(r.Text)})
	}

	writer.Render()
	return nil
}

// RenderOutline prints the heading tree of one page.
func RenderOutline(w io.Writer, page *manifest.Page, asJSON bool) error {
	if asJSON {
		return renderJSON(w, page.Outline)
	}

	fmt.Fprintf(w, "%s (%s)\n", page.Class, page.File)

	if page.Outline == nil {
		return nil
	}

	for _, heading := range page.Outline.Headings {
		if heading.Level == 1 {
			continue
		}

		indent := strings.Repeat("  ", heading.Level-2)
		fmt.Fprintf(w, "%s%s  [line %d]\n", indent, heading.Text, heading.Line)
	}

	return nil
}

func newTable(w io.Writer) table.Writer {
	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)

	return writer
}

func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return oops.Wrapf(err, "encoding json output")
	}

	return nil
}

func renderCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return oops.Wrapf(err, "writing CSV header")
	}

	if err := writer.WriteAll(rows); err != nil {
		return oops.Wrapf(err, "writing CSV rows")
	}

	return nil
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCellWidth {
		return s
	}

	return string(runes[:maxCellWidth-3]) + "..."
}
