package journal

import "time"

// Action kinds.
const (
	ActionMove   = "move"
	ActionRemove = "remove"
	ActionMkdir  = "mkdir"
	ActionRmdir  = "rmdir"
	ActionPatch  = "patch"
)

// Action statuses.
const (
	StatusDone    = "done"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Action describes one filesystem operation performed during a run. Paths are
// relative to the run's root.
type Action struct {
	Kind   string
	Path   string
	Target string
	Status string
	Detail string
}

// ActionRecord is a persisted Action.
type ActionRecord struct {
	Action
	Seq        int
	RecordedAt time.Time
}

// Counts summarizes a finished run.
type Counts struct {
	Moved    int
	Removed  int
	Created  int
	Patched  int
	Failures int
}

// RunRecord is a persisted run.
type RunRecord struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FinishedAt *time.Time
	Counts
}

// Finished reports whether FinishRun was called for the run.
func (r RunRecord) Finished() bool {
	return r.FinishedAt != nil
}
