package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AyushSagar16/stash/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-tier counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts := eng.GroupedCounts()
		bold := color.New(color.Bold).SprintFunc()

		total := 0
		for _, tier := range types.AllTiers() {
			fmt.Printf("%s %d\n", bold(fmt.Sprintf("%-4s", tier.DisplayName())), counts[tier])
			total += counts[tier]
		}
		fmt.Printf("\n%d active task(s)\n", total)

		if hot, ok := eng.HighestActiveTier(); ok {
			fmt.Printf("Hottest occupied tier: %s\n", hot.DisplayName())
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the recent audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := store.GetEvents(cmd.Context(), 50)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No events recorded.")
			return nil
		}

		dim := color.New(color.Faint).SprintFunc()
		for _, ev := range events {
			line := string(ev.EventType)
			if ev.OldTier != nil && ev.NewTier != nil {
				line = fmt.Sprintf("%s %s → %s", ev.EventType, ev.OldTier.DisplayName(), ev.NewTier.DisplayName())
			} else if ev.NewTier != nil {
				line = fmt.Sprintf("%s in %s", ev.EventType, ev.NewTier.DisplayName())
			}
			if ev.Comment != "" {
				line += " (" + ev.Comment + ")"
			}
			fmt.Printf("%s  %s\n", dim(ev.CreatedAt.Format("2006-01-02 15:04:05")), line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
}
