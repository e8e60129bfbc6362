package gild

import "github.com/gild-run/gild/pkg/fsx"

// Kind discriminates the canonical task union. Exactly one kind is set per
// task; downstream code switches exhaustively on it instead of sniffing
// shapes.
type Kind int

const (
	KindAlias Kind = iota + 1
	KindCallback
	KindPipeline
	KindWrapped
	KindSeries
	KindParallel
)

func (k Kind) String() string {
	switch k {
	case KindAlias:
		return "alias"
	case KindCallback:
		return "callback"
	case KindPipeline:
		return "pipeline"
	case KindWrapped:
		return "wrapped"
	case KindSeries:
		return "series"
	case KindParallel:
		return "parallel"
	}
	return "unknown"
}

const anonymousName = "<anonymous>"

// Task is the canonical, normalized description of one unit of orchestrated
// work. Which fields are meaningful depends on Kind.
type Task struct {
	Name string
	Kind Kind

	// KindAlias
	Target string

	// KindCallback
	Fn Func

	// KindPipeline
	Src        string
	File       *fsx.File
	Transforms []Transform
	Rename     RenameFunc
	Dest       string
	Base       string

	// KindWrapped
	Inner *Task

	// KindSeries / KindParallel
	Steps []*Task

	// WatchGlob marks the task for filesystem observation; empty means
	// not watched.
	WatchGlob string
}

// DisplayName is the human-readable name carried by the task's action.
func (t *Task) DisplayName() string {
	if t.Name == "" {
		return anonymousName
	}
	return t.Name
}

func (t *Task) Watched() bool {
	return t.WatchGlob != ""
}
