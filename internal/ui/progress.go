package ui

import (
	"sync"

	"github.com/jedib0t/go-pretty/v6/progress"

	"github.com/g5becks/ahkdoc/internal/generate"
)

func NewProgressWriter() progress.Writer {
	writer := progress.NewWriter()
	writer.SetAutoStop(true)
	writer.SetTrackerLength(30)
	writer.SetStyle(progress.StyleBlocks)
	writer.Style().Visibility.ETA = true
	writer.Style().Visibility.Speed = true
	writer.Style().Visibility.Value = true

	return writer
}

// GenerateProgress drives a progress bar from generation events.
type GenerateProgress struct {
	writer  progress.Writer
	mu      sync.Mutex
	tracker *progress.Tracker
}

func NewGenerateProgress(writer progress.Writer) *GenerateProgress {
	return &GenerateProgress{writer: writer}
}

// HandleEvent is the callback wired into generate.Options.OnEvent.
func (g *GenerateProgress) HandleEvent(e generate.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch e.Kind {
	case generate.EventBuilt:
		g.tracker = &progress.Tracker{
			Message: "rendering pages",
			Total:   int64(e.Total),
			Units:   progress.UnitsDefault,
		}
		g.writer.AppendTracker(g.tracker)

	case generate.EventClassDone:
		if g.tracker == nil {
			return
		}

		if e.Status == generate.StatusFailed {
			g.tracker.IncrementWithError(1)
			return
		}

		g.tracker.Increment(1)
	}
}

// Done marks the tracker finished so the writer can stop.
func (g *GenerateProgress) Done() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.tracker != nil && !g.tracker.IsDone() {
		g.tracker.MarkAsDone()
	}
}
