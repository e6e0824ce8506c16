package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/recolor/internal/engine/tracking"
	"github.com/dshills/recolor/internal/highlight"
	"github.com/dshills/recolor/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Keep a file colored as it changes on disk",
		Long: `Color a file, then watch it. Every save is diffed against the previous
content and applied to the buffer as edits, so only the damaged region is
re-lexed. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err := a.watch(ctx, cmd, args[0])
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, path string) error {
	d, err := a.open(path)
	if err != nil {
		return err
	}
	defer d.Close()

	w, err := watch.New(path,
		watch.WithDelay(a.cfg.Watch.Debounce),
		watch.WithLogger(a.logger.WithComponent("watch")))
	if err != nil {
		return err
	}
	defer w.Close()

	if d.engine.Mode() == highlight.ModeWorker {
		go func() {
			if err := d.engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("worker: %v", err)
			}
		}()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s (%d restart positions)\n", path, len(d.engine.RestartPositions()))

	tr := tracking.NewTracker(d.buf)
	seen := 0
	return watch.Follow(ctx, w, tr, func(ev watch.Event, rev tracking.Revision) {
		if len(rev.Edits) == 0 {
			return
		}
		d.engine.Drain()
		st := d.engine.Stats()
		fmt.Fprintf(out, "%s %s: window [%d,%d), %d tokens, %d restart positions\n",
			ev.Op, rev, st.LastWindowStart, st.LastWindowEnd, st.LastPassTokens, st.RestartPositions)
		for _, diag := range d.diagnostics(seen) {
			fmt.Fprintf(out, "fault: %s\n", diag)
			seen++
		}
		if a.cfg.Verify {
			if err := d.verify(); err != nil {
				a.logger.Error("%v", err)
			}
		}
	})
}
