package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AyushSagar16/stash/internal/escalation"
	"github.com/AyushSagar16/stash/internal/events"
	"github.com/AyushSagar16/stash/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	Long: `Start the interactive shell. The escalation scheduler runs in the
background for the lifetime of the session, so tasks keep warming up
while you work.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		notifier := events.NewTerminalNotifier(os.Stdout)
		sched := escalation.New(store, eng, cfg.EscalationConfig(), notifier)

		r, err := repl.New(&repl.Config{Engine: eng, Store: store})
		if err != nil {
			return err
		}

		if err := sched.Start(ctx); err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			defer cancel()
			return r.Run(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			return sched.Stop(context.Background())
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
