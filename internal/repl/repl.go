// Package repl provides the interactive command shell over the tiering
// engine. It owns no state of its own: every command routes through the
// engine and prints the refreshed snapshot.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/AyushSagar16/stash/internal/engine"
	"github.com/AyushSagar16/stash/internal/storage"
)

// REPL represents the interactive shell
type REPL struct {
	engine   *engine.Engine
	store    storage.Storage
	rl       *readline.Instance
	ctx      context.Context
	commands map[string]CommandHandler
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Engine *engine.Engine

	// Store is used directly for audit trail queries; everything else
	// routes through the engine. Optional: without it, 'history' is
	// unavailable.
	Store storage.Storage
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}

	r := &REPL{
		engine:   cfg.Engine,
		store:    cfg.Store,
		commands: make(map[string]CommandHandler),
	}
	r.registerCommands()

	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	prompt := cyan("stash> ")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

// processInput processes a single line of input
func (r *REPL) processInput(line string) error {
	// Slash prefix is optional: "promote" and "/promote" are the same.
	line = strings.TrimPrefix(line, "/")

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	if handler, ok := r.commands[command]; ok {
		return handler(args)
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Unknown command %q. Type 'help' for available commands.\n", yellow("Note:"), command)
	return nil
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
	r.commands["list"] = r.cmdList
	r.commands["add"] = r.cmdAdd
	r.commands["done"] = r.cmdDone
	r.commands["promote"] = r.cmdPromote
	r.commands["snooze"] = r.cmdSnooze
	r.commands["clear"] = r.cmdClear
	r.commands["status"] = r.cmdStatus
	r.commands["history"] = r.cmdHistory
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("stash - tiered task stash"))
	fmt.Println("Tasks escalate toward L1 as they wait; snooze what can cool off.")
	fmt.Println()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"list active", "List active tasks by tier"},
		{"list completed", "List completed tasks"},
		{"add <tier> <title>", "Add a task (tier: L1, L2, L3, MEM)"},
		{"done <match>", "Complete the task matching <match>"},
		{"promote <match>", "Move the matching task one tier toward L1"},
		{"snooze <match>", "Move the matching task one tier toward MEM"},
		{"clear completed", "Delete all completed tasks"},
		{"status", "Show per-tier counts and last escalation"},
		{"history", "Show the recent audit trail"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the shell"},
	}

	for _, cmd := range commands {
		fmt.Printf("  %-22s %s\n", green(cmd.name), cmd.desc)
	}

	fmt.Println()
	fmt.Println("Tasks are matched by case-insensitive substring of their title.")
	fmt.Println()
	return nil
}

// cmdExit exits the REPL
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Goodbye!\n", green("✓"))
	r.rl.Close()
	return io.EOF
}
