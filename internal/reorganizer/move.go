package reorganizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"deepclean/internal/fileutil"
	"deepclean/internal/journal"
	"deepclean/internal/logging"
)

// rename is swapped in tests to simulate cross-device moves.
var rename = os.Rename

// Move relocates src to dst and returns the final path, or "" when src does
// not exist. When dst is an existing directory src is moved inside it under
// its base name; that final path must not itself be a directory. Existing
// files are replaced. A rename across filesystems falls back to copy and
// remove.
func Move(src, dst string) (string, error) {
	if _, err := os.Lstat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat source: %w", err)
	}

	target := dst
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		target = filepath.Join(dst, filepath.Base(src))
		if inner, err := os.Lstat(target); err == nil && inner.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrDestinationExists, target)
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create parent: %w", err)
	}

	if err := rename(src, target); err != nil {
		if !errors.Is(err, unix.EXDEV) {
			return "", err
		}
		if err := copyAcross(src, target); err != nil {
			return "", fmt.Errorf("cross-device copy: %w", err)
		}
		if err := os.RemoveAll(src); err != nil {
			return "", fmt.Errorf("remove source after copy: %w", err)
		}
	}
	return target, nil
}

func copyAcross(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	switch mode := info.Mode(); {
	case mode&os.ModeSymlink != 0:
		link, err := os.Readlink(src)
		if err != nil {
			return err
		}
		if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return os.Symlink(link, dst)
	case mode.IsDir():
		return fileutil.CopyTree(src, dst)
	default:
		return fileutil.CopyFileVerified(src, dst)
	}
}

// safeMove moves src to dst, logging and recording the outcome. It reports
// whether anything was moved.
func (r *Reorganizer) safeMove(ctx context.Context, src, dst string) bool {
	target, err := Move(src, dst)
	if err != nil {
		r.fail(ctx, journal.ActionMove, src, fmt.Errorf("move to %s: %w", r.rel(dst), err))
		return false
	}
	if target == "" {
		return false
	}

	from, to := r.rel(src), r.rel(target)
	r.summary.Moved = append(r.summary.Moved, to)
	r.logger.Info("moved",
		logging.String("source", filepath.Base(src)),
		logging.String("target", to),
	)
	r.record(ctx, journal.Action{Kind: journal.ActionMove, Path: from, Target: to, Status: journal.StatusDone})
	return true
}
