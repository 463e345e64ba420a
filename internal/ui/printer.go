package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/g5becks/ahkdoc/internal/generate"
)

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}

// GeneratePrinter renders generation events with colored output.
type GeneratePrinter struct {
	w       io.Writer
	dryRun  bool
	verbose bool
	mu      sync.Mutex
	s       styles
}

// NewGeneratePrinter creates a GeneratePrinter that writes to stderr.
func NewGeneratePrinter(dryRun bool, verbose bool) *GeneratePrinter {
	return NewGeneratePrinterWithWriter(os.Stderr, dryRun, verbose)
}

// NewGeneratePrinterWithWriter creates a GeneratePrinter that writes to w.
// Unchanged pages are only reported when verbose is set.
func NewGeneratePrinterWithWriter(w io.Writer, dryRun bool, verbose bool) *GeneratePrinter {
	return &GeneratePrinter{
		w:       w,
		dryRun:  dryRun,
		verbose: verbose,
		s:       newStyles(),
	}
}

// HandleEvent is the callback wired into generate.Options.OnEvent.
func (p *GeneratePrinter) HandleEvent(e generate.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Kind {
	case generate.EventBuilt:
		fmt.Fprintf(p.w, "%s rendering %s...\n",
			p.s.dim.Sprint("⟳"),
			p.s.bold.Sprintf("%d class(es)", e.Total),
		)

	case generate.EventClassStart:
		if p.verbose {
			fmt.Fprintf(p.w, "%s %s\n", p.s.dim.Sprint("·"), p.s.dim.Sprint(e.Class))
		}

	case generate.EventClassDone:
		p.handleDone(e)

	case generate.EventPageRemoved:
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.yellow.Sprint("−"),
			p.s.bold.Sprint(e.File),
			p.s.dim.Sprint("(stale)"),
		)

	case generate.EventUpToDate:
		fmt.Fprintf(p.w, "%s %s\n",
			p.s.dim.Sprint("—"),
			p.s.dim.Sprint("up to date"),
		)
	}
}

func (p *GeneratePrinter) handleDone(e generate.Event) {
	name := p.s.bold.Sprint(e.Class)

	switch e.Status {
	case generate.StatusFailed:
		fmt.Fprintf(p.w, "%s %s: %s\n",
			p.s.red.Sprint("✗"),
			name,
			e.Err,
		)

	case generate.StatusUnchanged:
		if !p.verbose {
			return
		}

		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.dim.Sprint("—"),
			name,
			p.s.dim.Sprint("(unchanged)"),
		)

	case generate.StatusWritten:
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.green.Sprint("✓"),
			name,
			p.s.dim.Sprintf("→ %s", e.File),
		)
	}
}

// PrintSummary renders a final summary line after generation completes.
func (p *GeneratePrinter) PrintSummary(r *generate.RunResult) {
	if r == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)

	label := "generate complete"
	if p.dryRun {
		label = p.s.yellow.Sprint("dry-run complete")
	}

	if r.UpToDate {
		fmt.Fprintf(p.w, "%s: %s\n", label, p.s.dim.Sprint("nothing to do"))
		return
	}

	parts := fmt.Sprintf("%s: %d class(es), %d written, %d unchanged, %d removed",
		label,
		r.Classes,
		r.Written,
		r.Unchanged,
		r.Removed,
	)

	if r.Excluded > 0 {
		parts += fmt.Sprintf(", %d excluded", r.Excluded)
	}

	if len(r.Failures) > 0 {
		parts += fmt.Sprintf(", %s",
			p.s.red.Sprintf("%d failed", len(r.Failures)),
		)
	}

	fmt.Fprintln(p.w, parts)

	if p.dryRun {
		fmt.Fprintln(p.w, p.s.dim.Sprint("no files were written or removed"))
	}
}
