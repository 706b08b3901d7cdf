package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AyushSagar16/stash/internal/escalation"
	"github.com/AyushSagar16/stash/internal/events"
)

var runOnce bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the escalation scheduler",
	Long: `Run the escalation scheduler in the foreground until interrupted.
With --once, execute a single escalation pass immediately and exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		notifier := events.NewTerminalNotifier(os.Stdout)
		sched := escalation.New(store, eng, cfg.EscalationConfig(), notifier)

		if runOnce {
			n, err := sched.RunPass(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Escalated %d task(s)\n", n)
			return nil
		}

		if err := sched.Start(ctx); err != nil {
			return err
		}
		fmt.Printf("Escalation scheduler running (first pass in %v, then every %v). Ctrl+C to stop.\n",
			cfg.EscalationInitialDelay, cfg.EscalationInterval)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return sched.Stop(stopCtx)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runOnce, "once", false, "run a single escalation pass and exit")
	rootCmd.AddCommand(runCmd)
}
