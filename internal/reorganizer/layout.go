package reorganizer

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"deepclean/internal/journal"
	"deepclean/internal/logging"
)

func (r *Reorganizer) quarantineArchive(ctx context.Context) {
	if r.cfg.Layout.ArchiveDir == "" {
		return
	}
	archive := r.abs(r.cfg.Layout.ArchiveDir)
	if _, err := os.Lstat(archive); err != nil {
		return
	}
	r.logger.Info("detected archive folder, moving to backup directory",
		logging.String("archive", r.cfg.Layout.ArchiveDir),
		logging.String("backup", r.cfg.Layout.BackupDir),
	)
	r.safeMove(ctx, archive, r.abs(r.cfg.Layout.BackupDir))
}

// removeClutter deletes clutter files found directly in the root. Names are
// matched exactly; directories are left alone.
func (r *Reorganizer) removeClutter(ctx context.Context) {
	for _, name := range r.cfg.Layout.Clutter {
		path := r.abs(name)
		info, err := os.Lstat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				r.fail(ctx, journal.ActionRemove, path, err)
			}
			continue
		}
		if info.IsDir() {
			r.logger.Warn("clutter name is a directory, skipping", logging.String(logging.FieldPath, name))
			r.record(ctx, journal.Action{Kind: journal.ActionRemove, Path: name, Status: journal.StatusSkipped, Detail: "is a directory"})
			continue
		}
		if err := os.Remove(path); err != nil {
			r.fail(ctx, journal.ActionRemove, path, err)
			continue
		}
		r.summary.Removed = append(r.summary.Removed, name)
		r.logger.Info("removed clutter", logging.String(logging.FieldPath, name))
		r.record(ctx, journal.Action{Kind: journal.ActionRemove, Path: name, Status: journal.StatusDone})
	}
}

// ensureLayout creates every target directory that does not exist yet.
func (r *Reorganizer) ensureLayout(ctx context.Context) {
	for _, dir := range r.cfg.Layout.Directories {
		path := r.abs(dir)
		info, err := os.Stat(path)
		if err == nil {
			if !info.IsDir() {
				r.fail(ctx, journal.ActionMkdir, path, errors.New("path exists and is not a directory"))
			}
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			r.fail(ctx, journal.ActionMkdir, path, err)
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			r.fail(ctx, journal.ActionMkdir, path, err)
			continue
		}
		r.summary.Created = append(r.summary.Created, dir)
		r.logger.Debug("created directory", logging.String(logging.FieldPath, dir))
		r.record(ctx, journal.Action{Kind: journal.ActionMkdir, Path: dir, Status: journal.StatusDone})
	}
}
