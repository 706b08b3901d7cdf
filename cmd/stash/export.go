package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AyushSagar16/stash/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tasks as JSON",
	Long: `Serialize every task, active and completed, to a JSON array with
ISO-8601 dates and sorted keys. Writes to stdout unless --out is given;
file writes are atomic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if exportOut != "" {
			if err := export.WriteFile(ctx, store, exportOut); err != nil {
				return err
			}
			fmt.Printf("Exported snapshot to %s\n", exportOut)
			return nil
		}

		data, err := export.Snapshot(ctx, store)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write snapshot to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
