package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AyushSagar16/stash/internal/types"
)

var addTier string

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Long: `Add a task to a tier. New tasks land in MEM unless --tier says
otherwise; escalation will warm them up over time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, ok := types.ParseTier(addTier)
		if !ok {
			return fmt.Errorf("unknown tier %q (expected L1, L2, L3, or MEM)", addTier)
		}

		title := strings.Join(args, " ")
		task, err := eng.AddTask(cmd.Context(), title, tier)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added %q to %s\n", green("✓"), task.Title, tier.DisplayName())
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addTier, "tier", "t", "mem", "tier to add the task to (L1, L2, L3, MEM)")
	rootCmd.AddCommand(addCmd)
}
