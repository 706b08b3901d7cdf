package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AyushSagar16/stash/internal/config"
	"github.com/AyushSagar16/stash/internal/engine"
	"github.com/AyushSagar16/stash/internal/storage"
)

// Shared across subcommands, wired once in PersistentPreRunE. The store
// is constructed here and handed down; nothing else opens the data file.
var (
	cfgPath string
	dbPath  string

	cfg   config.Config
	store storage.Storage
	eng   *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:   "stash",
	Short: "Tiered personal task stash",
	Long: `stash keeps your tasks in four tiers named after cache levels:
L1 is what you are working on now, MEM is the cold backlog. Tasks that
sit in L2 or L3 long enough escalate toward L1 automatically, as long as
the hotter tier has room.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}

		ctx := cmd.Context()
		store, err = storage.NewStorage(ctx, &storage.Config{Path: cfg.DBPath})
		if err != nil {
			// Degraded mode: stay available instead of crashing. Reads
			// come back empty and writes are dropped.
			fmt.Fprintf(os.Stderr, "Warning: storage unavailable (%v), running with no-op store\n", err)
			store = storage.NewNoop()
		}

		eng = engine.New(store)
		return eng.Reload(ctx)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			if err := store.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.stash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default from config)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
