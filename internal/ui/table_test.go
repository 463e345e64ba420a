package ui_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/g5becks/ahkdoc/internal/manifest"
	"github.com/g5becks/ahkdoc/internal/outline"
	"github.com/g5becks/ahkdoc/internal/search"
	"github.com/g5becks/ahkdoc/internal/ui"
)

func testPages() []manifest.Page {
	return []manifest.Page{
		{
			Class:       "List",
			File:        "list.md",
			Description: "An ordered list.",
			Extends:     "Collection",
			Methods:     4,
			Properties:  2,
			Outline: &outline.Outline{
				Title: "List",
				Headings: []outline.Heading{
					{Level: 1, Text: "List", Line: 1},
					{Level: 2, Text: "Methods", Line: 5},
					{Level: 3, Text: "Push(value)", ID: "push", Line: 7},
				},
			},
		},
		{Class: "Collection", File: "collection.md", Description: strings.Repeat("long ", 30)},
	}
}

func TestRenderClassListJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ui.RenderClassList(&buf, testPages(), ui.ListOptions{Format: ui.FormatJSON}); err != nil {
		t.Fatalf("RenderClassList() error = %v", err)
	}

	var decoded []manifest.Page
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if len(decoded) != 2 || decoded[0].Class != "List" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestRenderClassListTable(t *testing.T) {
	var buf bytes.Buffer
	if err := ui.RenderClassList(&buf, testPages(), ui.ListOptions{}); err != nil {
		t.Fatalf("RenderClassList() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"CLASS", "FILE", "List", "list.md", "collection.md", "..."} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "EXTENDS") {
		t.Errorf("non-verbose table has verbose columns:\n%s", out)
	}
}

func TestRenderClassListVerbose(t *testing.T) {
	var buf bytes.Buffer
	if err := ui.RenderClassList(&buf, testPages(), ui.ListOptions{Verbose: true}); err != nil {
		t.Fatalf("RenderClassList() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"EXTENDS", "METHODS", "PROPERTIES", "Collection"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSymbolResults(t *testing.T) {
	var buf bytes.Buffer
	results := []search.SymbolResult{
		{Class: "List", File: "list.md", Member: "Push", URI: "./list?id=push", MatchField: "member", MatchValue: "List.Push"},
		{Class: "Collection", File: "collection.md", MatchField: "class", MatchValue: "Collection"},
	}

	if err := ui.RenderSymbolResults(&buf, results, ui.FormatTable); err != nil {
		t.Fatalf("RenderSymbolResults() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"./list?id=push", "member: List.Push", "collection.md"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderContentResults(t *testing.T) {
	var buf bytes.Buffer
	results := []search.ContentResult{{Class: "List", File: "list.md", Line: 12, Text: "Appends a value."}}

	if err := ui.RenderContentResults(&buf, results, ui.FormatTable); err != nil {
		t.Fatalf("RenderContentResults() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"list.md", "12", "Appends a value."} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOutline(t *testing.T) {
	var buf bytes.Buffer
	page := testPages()[0]

	if err := ui.RenderOutline(&buf, &page, false); err != nil {
		t.Fatalf("RenderOutline() error = %v", err)
	}

	want := "List (list.md)\nMethods  [line 5]\n  Push(value)  [line 7]\n"
	if buf.String() != want {
		t.Errorf("RenderOutline() = %q, want %q", buf.String(), want)
	}
}

func TestRenderContentResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	results := []search.ContentResult{{Class: "List", File: "list.md", Line: 12, Text: "Appends, then returns."}}

	if err := ui.RenderContentResults(&buf, results, ui.FormatCSV); err != nil {
		t.Fatalf("RenderContentResults() error = %v", err)
	}

	want := "class,file,line,text\nList,list.md,12,\"Appends, then returns.\"\n"
	if buf.String() != want {
		t.Errorf("CSV = %q, want %q", buf.String(), want)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		value   string
		asJSON  bool
		want    ui.Format
		wantErr bool
	}{
		{value: "", want: ui.FormatTable},
		{value: "CSV", want: ui.FormatCSV},
		{value: "table", asJSON: true, want: ui.FormatJSON},
		{value: "xml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ui.ParseFormat(tt.value, tt.asJSON)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q, %v) error = %v, wantErr %v", tt.value, tt.asJSON, err, tt.wantErr)
			continue
		}

		if got != tt.want {
			t.Errorf("ParseFormat(%q, %v) = %q, want %q", tt.value, tt.asJSON, got, tt.want)
		}
	}
}
