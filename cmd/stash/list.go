package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AyushSagar16/stash/internal/types"
)

var listCompleted bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listCompleted {
			return printCompleted(cmd)
		}
		return printActive(cmd)
	},
}

func printActive(cmd *cobra.Command) error {
	tasks := eng.Tasks()
	if len(tasks) == 0 {
		fmt.Println("No active tasks.")
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	now := time.Now()

	for _, tier := range types.AllTiers() {
		inTier := eng.ActiveTasks(tier)
		if len(inTier) == 0 {
			continue
		}
		fmt.Printf("%s\n", bold(tier.DisplayName()))
		for _, t := range inTier {
			fmt.Printf("  %s %s\n", t.Title, dim("("+t.DwellString(now)+" in tier)"))
		}
	}
	return nil
}

func printCompleted(cmd *cobra.Command) error {
	if err := eng.ReloadCompleted(cmd.Context()); err != nil {
		return err
	}

	tasks := eng.CompletedTasks()
	if len(tasks) == 0 {
		fmt.Println("No completed tasks.")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, t := range tasks {
		when := ""
		if t.CompletedAt != nil {
			when = t.CompletedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("%s %s %s\n", green("✓"), t.Title, dim(when))
	}
	return nil
}

func init() {
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "list completed tasks instead of active")
	rootCmd.AddCommand(listCmd)
}
