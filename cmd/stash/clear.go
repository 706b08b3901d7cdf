package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete completed tasks",
	Long: `Delete all completed tasks. With --all, delete everything,
active tasks included. Both are irreversible.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if clearAll {
			fmt.Print("This deletes ALL tasks, active included. Type 'yes' to continue: ")
			reader := bufio.NewReader(os.Stdin)
			line, _ := reader.ReadString('\n')
			if strings.TrimSpace(line) != "yes" {
				fmt.Println("Aborted.")
				return nil
			}

			n, err := eng.ClearAllData(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Cleared %d task(s)\n", n)
			return nil
		}

		n, err := eng.ClearCompleted(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Cleared %d completed task(s)\n", n)
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "delete all tasks, not just completed ones")
	rootCmd.AddCommand(clearCmd)
}
