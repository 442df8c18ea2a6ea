package reorganizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deepclean/internal/journal"
	"deepclean/internal/logging"
)

func (r *Reorganizer) migrate(ctx context.Context) {
	for _, merge := range r.cfg.Layout.Merges {
		r.merge(ctx, r.abs(merge.From), r.abs(merge.Into))
	}
	for _, move := range r.cfg.Layout.Moves {
		r.safeMove(ctx, r.abs(move.From), r.abs(move.To))
	}
}

// merge moves every entry of from into into and removes the emptied from.
// A from that still holds entries after the moves is reported, never
// force-removed.
func (r *Reorganizer) merge(ctx context.Context, from, into string) {
	info, err := os.Stat(from)
	if err != nil {
		return
	}
	if !info.IsDir() {
		r.fail(ctx, journal.ActionMove, from, errors.New("merge source is not a directory"))
		return
	}

	entries, err := os.ReadDir(from)
	if err != nil {
		r.fail(ctx, journal.ActionMove, from, err)
		return
	}
	for _, entry := range entries {
		r.safeMove(ctx, filepath.Join(from, entry.Name()), filepath.Join(into, entry.Name()))
	}

	if err := os.Remove(from); err != nil {
		if remaining := remainingNames(from); len(remaining) > 0 {
			err = fmt.Errorf("%w (remaining: %s)", err, strings.Join(remaining, ", "))
		}
		r.fail(ctx, journal.ActionRmdir, from, err)
		return
	}
	rel := r.rel(from)
	r.summary.Removed = append(r.summary.Removed, rel)
	r.logger.Info("removed merged directory", logging.String(logging.FieldPath, rel))
	r.record(ctx, journal.Action{Kind: journal.ActionRmdir, Path: rel, Status: journal.StatusDone})
}

func remainingNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}
