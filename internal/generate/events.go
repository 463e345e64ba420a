package generate

type EventKind int

const (
	// EventBuilt fires once the model is built. Total is the number of
	// pages about to be rendered.
	EventBuilt EventKind = iota
	EventClassStart
	EventClassDone
	EventPageRemoved
	// EventUpToDate fires when the input and options match the lock file
	// and nothing is rendered.
	EventUpToDate
)

type PageStatus string

const (
	StatusWritten   PageStatus = "written"
	StatusUnchanged PageStatus = "unchanged"
	StatusFailed    PageStatus = "failed"
)

// Event reports generation progress. Events of different classes may be
// delivered concurrently.
type Event struct {
	Kind   EventKind
	Class  string
	File   string
	Status PageStatus
	Total  int
	Err    error
}

// Failure is a class whose page could not be produced.
type Failure struct {
	Class string
	Err   error
}

// RunResult summarizes a generation run.
type RunResult struct {
	OutputDir string
	Classes   int
	Written   int
	Unchanged int
	Removed   int
	Excluded  int
	UpToDate  bool
	DryRun    bool
	Failures  []Failure
}

func (o Options) emit(e Event) {
	if o.OnEvent != nil {
		o.OnEvent(e)
	}
}
