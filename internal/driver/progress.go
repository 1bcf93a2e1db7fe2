package driver

// Stage identifies a pipeline stage for progress reporting.
type Stage uint8

const (
	StageParse Stage = iota
	StageResolve
	StageCheck
	StageLower
	StageBuild
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageResolve:
		return "resolve"
	case StageCheck:
		return "check"
	case StageLower:
		return "lower"
	case StageBuild:
		return "build"
	}
	return "unknown"
}

// Status is the state of a file or stage in a progress event.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event is one progress update. File is empty for stage-level events.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// emit forwards an event to the configured callback, if any.
func (o *Options) emit(ev Event) {
	if o.Progress != nil {
		o.Progress(ev)
	}
}
