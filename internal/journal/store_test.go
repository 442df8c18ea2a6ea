package journal_test

import (
	"context"
	"errors"
	"testing"

	"deepclean/internal/config"
	"deepclean/internal/journal"
	"deepclean/internal/testsupport"
)

func openStore(t *testing.T) (*journal.Store, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return testsupport.MustOpenJournal(t, cfg), cfg
}

func TestOpenCreatesDatabaseInStateDir(t *testing.T) {
	store, cfg := openStore(t)
	if store.Path() != cfg.JournalPath() {
		t.Fatalf("unexpected journal path %q, want %q", store.Path(), cfg.JournalPath())
	}

	// Reopening an initialized database must pass the schema check.
	again, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = again.Close()
}

func TestRunRecordsActionsInOrder(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/projects/pralor")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run id")
	}

	actions := []journal.Action{
		{Kind: journal.ActionMove, Path: "archive", Target: "_ARCHIVED_PROJECTS/legacy_code", Status: journal.StatusDone},
		{Kind: journal.ActionMkdir, Path: "src/services", Status: journal.StatusDone},
		{Kind: journal.ActionPatch, Path: "src/App.jsx", Status: journal.StatusFailed, Detail: "permission denied"},
	}
	for _, action := range actions {
		if err := run.Record(ctx, action); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := run.Finish(ctx, journal.Counts{Moved: 1, Created: 1, Failures: 1}); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got, err := store.Actions(ctx, run.ID)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(got) != len(actions) {
		t.Fatalf("expected %d actions, got %d", len(actions), len(got))
	}
	for i, rec := range got {
		if rec.Seq != i+1 {
			t.Fatalf("action %d: unexpected seq %d", i, rec.Seq)
		}
		if rec.Action != actions[i] {
			t.Fatalf("action %d: got %+v want %+v", i, rec.Action, actions[i])
		}
		if rec.RecordedAt.IsZero() {
			t.Fatalf("action %d: missing timestamp", i)
		}
	}

	found, err := store.FindRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("FindRun: %v", err)
	}
	if found == nil || found.Root != "/projects/pralor" {
		t.Fatalf("unexpected run: %+v", found)
	}
	if !found.Finished() {
		t.Fatal("expected run to be finished")
	}
	if found.Moved != 1 || found.Created != 1 || found.Failures != 1 || found.Patched != 0 {
		t.Fatalf("unexpected counts: %+v", found.Counts)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	var ids []string
	for _, root := range []string{"/a", "/b", "/c"} {
		run, err := store.BeginRun(ctx, root)
		if err != nil {
			t.Fatalf("BeginRun: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[2].ID != ids[0] {
		t.Fatalf("expected newest first, got %s, %s, %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}
	if runs[0].Finished() {
		t.Fatal("unfinished run reported as finished")
	}

	limited, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit to apply, got %d runs", len(limited))
	}
}

func TestFindRunByPrefix(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/project")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	found, err := store.FindRun(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("FindRun: %v", err)
	}
	if found == nil || found.ID != run.ID {
		t.Fatalf("expected prefix to resolve %s, got %+v", run.ID, found)
	}

	missing, err := store.FindRun(ctx, "does-not-exist")
	if err != nil {
		t.Fatalf("FindRun missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown run, got %+v", missing)
	}
}

func TestFindRunAmbiguousPrefix(t *testing.T) {
	ids := []string{"abcd0000-0000-4000-8000-000000000001", "abcd0000-0000-4000-8000-000000000002"}
	restore := journal.SetRunIDsForTests(ids...)
	t.Cleanup(restore)

	store, _ := openStore(t)
	ctx := context.Background()
	for range ids {
		if _, err := store.BeginRun(ctx, "/project"); err != nil {
			t.Fatalf("BeginRun: %v", err)
		}
	}

	if _, err := store.FindRun(ctx, "abcd"); !errors.Is(err, journal.ErrAmbiguousRun) {
		t.Fatalf("expected ErrAmbiguousRun, got %v", err)
	}
	found, err := store.FindRun(ctx, ids[1])
	if err != nil {
		t.Fatalf("FindRun exact: %v", err)
	}
	if found == nil || found.ID != ids[1] {
		t.Fatalf("expected exact id to resolve, got %+v", found)
	}
}
