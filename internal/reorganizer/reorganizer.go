package reorganizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"deepclean/internal/config"
	"deepclean/internal/journal"
	"deepclean/internal/logging"
)

var (
	// ErrRootMissing reports a project root that does not exist or is not a directory.
	ErrRootMissing = errors.New("project root missing")
	// ErrDestinationExists reports a move whose final path is an existing directory.
	ErrDestinationExists = errors.New("destination already exists")
)

// Recorder receives every filesystem action taken during a run.
type Recorder interface {
	Record(ctx context.Context, action journal.Action) error
}

// Failure captures a step that could not be completed.
type Failure struct {
	Op   string
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Op, f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Summary lists what a run changed. Paths are relative to the project root.
type Summary struct {
	Moved    []string
	Removed  []string
	Created  []string
	Patched  []string
	Failures []Failure
}

// Changed reports whether the run touched the filesystem at all.
func (s Summary) Changed() bool {
	return len(s.Moved)+len(s.Removed)+len(s.Created)+len(s.Patched) > 0
}

// Reorganizer executes the layout migration against a single project root.
type Reorganizer struct {
	cfg      *config.Config
	root     string
	logger   *slog.Logger
	recorder Recorder
	summary  Summary
}

// New constructs a Reorganizer. A nil logger discards output and a nil
// recorder disables journaling.
func New(cfg *config.Config, logger *slog.Logger, recorder Recorder) *Reorganizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reorganizer{
		cfg:      cfg,
		root:     cfg.Paths.Root,
		logger:   logging.NewComponentLogger(logger, "reorganizer"),
		recorder: recorder,
	}
}

// Run executes every step in order and returns what changed. The returned
// error is non-nil only when the root itself is unusable; step failures are
// reported through Summary.Failures.
func (r *Reorganizer) Run(ctx context.Context) (Summary, error) {
	info, err := os.Stat(r.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Summary{}, fmt.Errorf("%w: %s", ErrRootMissing, r.root)
		}
		return Summary{}, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return Summary{}, fmt.Errorf("%w: %s is not a directory", ErrRootMissing, r.root)
	}

	start := time.Now()
	r.summary = Summary{}
	r.logger.Info("initiating deep clean", logging.String("root", r.root))

	r.quarantineArchive(ctx)
	r.removeClutter(ctx)
	r.ensureLayout(ctx)
	r.migrate(ctx)
	r.patchImports(ctx)

	r.logger.Debug("deep clean finished",
		logging.Int("moved", len(r.summary.Moved)),
		logging.Int("removed", len(r.summary.Removed)),
		logging.Int("created", len(r.summary.Created)),
		logging.Int("patched", len(r.summary.Patched)),
		logging.Int("failures", len(r.summary.Failures)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return r.summary, nil
}

func (r *Reorganizer) abs(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

func (r *Reorganizer) rel(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (r *Reorganizer) fail(ctx context.Context, kind, path string, err error) {
	rel := r.rel(path)
	r.summary.Failures = append(r.summary.Failures, Failure{Op: kind, Path: rel, Err: err})
	r.logger.Error("could not "+kind,
		logging.String(logging.FieldStep, kind),
		logging.String(logging.FieldPath, rel),
		logging.Error(err),
	)
	r.record(ctx, journal.Action{Kind: kind, Path: rel, Status: journal.StatusFailed, Detail: err.Error()})
}

func (r *Reorganizer) record(ctx context.Context, action journal.Action) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(ctx, action); err != nil {
		r.logger.Warn("journal write failed",
			logging.String(logging.FieldStep, action.Kind),
			logging.String(logging.FieldPath, action.Path),
			logging.Error(err),
		)
	}
}
