package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <task-match>",
	Short: "Move the matching task one tier toward L1",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := matchTask(cmd, args)
		if err != nil {
			return err
		}

		target, ok := task.Tier.Promoted()
		if !ok {
			fmt.Printf("%q is already at %s\n", task.Title, task.Tier.DisplayName())
			return nil
		}

		if err := eng.PromoteTask(cmd.Context(), task.ID); err != nil {
			return err
		}
		fmt.Printf("Promoted %q to %s\n", task.Title, target.DisplayName())
		return nil
	},
}

var snoozeCmd = &cobra.Command{
	Use:   "snooze <task-match>",
	Short: "Move the matching task one tier toward MEM",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := matchTask(cmd, args)
		if err != nil {
			return err
		}

		target, ok := task.Tier.Demoted()
		if !ok {
			fmt.Printf("%q is already at %s\n", task.Title, task.Tier.DisplayName())
			return nil
		}

		if err := eng.SnoozeTask(cmd.Context(), task.ID); err != nil {
			return err
		}
		fmt.Printf("Snoozed %q to %s\n", task.Title, target.DisplayName())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(snoozeCmd)
}
