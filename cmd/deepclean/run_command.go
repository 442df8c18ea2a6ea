package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"deepclean/internal/config"
	"deepclean/internal/journal"
	"deepclean/internal/logging"
	"deepclean/internal/reorganizer"
)

const bannerRule = "-------------------------------------------------------"

func runCleanup(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := ctx.logger(cmd)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "close log file: %v\n", err)
		}
	}()

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another deepclean run is in progress (lock %s)", cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release lock", logging.String("lock", cfg.LockPath()), logging.Error(err))
		}
	}()

	runCtx := cmd.Context()
	store, run := openJournal(runCtx, cfg, logger)
	if store != nil {
		defer store.Close()
	}

	var recorder reorganizer.Recorder
	if run != nil {
		recorder = run
		logger = logger.With(logging.String(logging.FieldRunID, run.ID))
	}

	summary, err := reorganizer.New(cfg, logger, recorder).Run(runCtx)
	if err != nil {
		return err
	}

	if run != nil {
		counts := journal.Counts{
			Moved:    len(summary.Moved),
			Removed:  len(summary.Removed),
			Created:  len(summary.Created),
			Patched:  len(summary.Patched),
			Failures: len(summary.Failures),
		}
		if err := run.Finish(runCtx, counts); err != nil {
			logger.Warn("journal finish failed", logging.Error(err))
		}
	}

	printBanner(cmd.OutOrStdout(), summary)
	return nil
}

// openJournal opens the run journal when enabled. Failures are logged and
// yield nil values so the run proceeds unjournaled.
func openJournal(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*journal.Store, *journal.Run) {
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	store, err := journal.Open(cfg)
	if err != nil {
		logger.Warn("journal unavailable, continuing without it", logging.Error(err))
		return nil, nil
	}
	run, err := store.BeginRun(ctx, cfg.Paths.Root)
	if err != nil {
		logger.Warn("journal unavailable, continuing without it", logging.Error(err))
		_ = store.Close()
		return nil, nil
	}
	return store, run
}

func printBanner(out io.Writer, summary reorganizer.Summary) {
	fmt.Fprintln(out, "\n"+bannerRule)
	fmt.Fprintln(out, "   CLEANUP COMPLETE")
	fmt.Fprintln(out, bannerRule)
	fmt.Fprintln(out, "1. Your old projects are safely in: /_ARCHIVED_PROJECTS")
	fmt.Fprintln(out, "2. Your main app is now organized in: /src")
	fmt.Fprintln(out, "3. Logic is in /src/services")
	fmt.Fprintln(out, "4. Styling is in /src/styles")
	fmt.Fprintln(out, bannerRule)
	fmt.Fprintln(out, "NEXT STEP: Run 'npm run dev' to ensure everything links up.")
	fmt.Fprintln(out)

	rows := [][]string{
		{"Moved", strconv.Itoa(len(summary.Moved))},
		{"Removed", strconv.Itoa(len(summary.Removed))},
		{"Created", strconv.Itoa(len(summary.Created))},
		{"Patched", strconv.Itoa(len(summary.Patched))},
		{"Failures", strconv.Itoa(len(summary.Failures))},
	}
	fmt.Fprintln(out, renderTable([]string{"Action", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}
