package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AyushSagar16/stash/internal/engine"
	"github.com/AyushSagar16/stash/internal/types"
)

var doneCmd = &cobra.Command{
	Use:   "done <task-match>",
	Short: "Complete the task matching the given text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := matchTask(cmd, args)
		if err != nil {
			return err
		}

		if err := eng.CompleteTask(cmd.Context(), task.ID); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Completed %q\n", green("✓"), task.Title)
		return nil
	},
}

// matchTask resolves CLI args to an active task by case-insensitive
// substring match on the title.
func matchTask(cmd *cobra.Command, args []string) (*types.Task, error) {
	match := strings.Join(args, " ")
	task, err := eng.FindActive(match)
	if err != nil {
		if errors.Is(err, engine.ErrTaskNotFound) {
			return nil, fmt.Errorf("not found: no active task matching %q", match)
		}
		return nil, err
	}
	return task, nil
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
