package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"deepclean/internal/config"
)

// newRunID is replaced in tests that need predictable identifiers.
var newRunID = uuid.NewString

// ErrAmbiguousRun indicates a run ID prefix matched more than one run.
var ErrAmbiguousRun = errors.New("ambiguous run id")

// Store persists run journals in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const runColumns = "id, root, started_at, finished_at, moved, removed, created, patched, failures"

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the journal database in the state directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.JournalPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Run is an open journal entry that actions are appended to.
type Run struct {
	ID    string
	store *Store
	seq   int
}

// BeginRun opens a new run for root.
func (s *Store) BeginRun(ctx context.Context, root string) (*Run, error) {
	id := newRunID()
	now := timestamp(time.Now())
	if err := s.exec(ctx,
		`INSERT INTO runs (id, root, started_at) VALUES (?, ?, ?)`,
		id, root, now,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &Run{ID: id, store: s}, nil
}

// Record appends an action to the run.
func (r *Run) Record(ctx context.Context, action Action) error {
	r.seq++
	now := timestamp(time.Now())
	if err := r.store.exec(ctx,
		`INSERT INTO actions (run_id, seq, kind, path, target, status, detail, recorded_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.seq, action.Kind, action.Path, action.Target, action.Status, action.Detail, now,
	); err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// Finish stores the run's counts and completion time.
func (r *Run) Finish(ctx context.Context, counts Counts) error {
	now := timestamp(time.Now())
	if err := r.store.exec(ctx,
		`UPDATE runs SET finished_at = ?, moved = ?, removed = ?, created = ?, patched = ?, failures = ?
        WHERE id = ?`,
		now, counts.Moved, counts.Removed, counts.Created, counts.Patched, counts.Failures, r.ID,
	); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// FindRun resolves a full run ID or a unique prefix of one. It returns nil
// when nothing matches.
func (s *Store) FindRun(ctx context.Context, idOrPrefix string) (*RunRecord, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY started_at DESC, rowid DESC LIMIT 2`,
		idOrPrefix, len(idOrPrefix), idOrPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []*RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousRun, idOrPrefix)
	}
}

// Actions returns the actions recorded for a run in the order they happened.
func (s *Store) Actions(ctx context.Context, runID string) ([]ActionRecord, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT seq, kind, path, target, status, detail, recorded_at FROM actions WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var actions []ActionRecord
	for rows.Next() {
		var (
			rec         ActionRecord
			recordedRaw string
		)
		if err := rows.Scan(&rec.Seq, &rec.Kind, &rec.Path, &rec.Target, &rec.Status, &rec.Detail, &recordedRaw); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		if ts, err := parseTimeString(recordedRaw); err == nil {
			rec.RecordedAt = ts
		}
		actions = append(actions, rec)
	}
	return actions, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*RunRecord, error) {
	var (
		run         RunRecord
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Root,
		&startedRaw,
		&finishedRaw,
		&run.Moved,
		&run.Removed,
		&run.Created,
		&run.Patched,
		&run.Failures,
	); err != nil {
		return nil, err
	}
	if ts, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = ts
	}
	if finishedRaw.Valid {
		if ts, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &ts
		}
	}
	return &run, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(timeLayout, value)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
