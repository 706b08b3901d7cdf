package repl

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/AyushSagar16/stash/internal/engine"
	"github.com/AyushSagar16/stash/internal/types"
)

// cmdList lists tasks: "list", "list active", or "list completed".
func (r *REPL) cmdList(args []string) error {
	which := "active"
	if len(args) > 0 {
		which = strings.ToLower(args[0])
	}

	switch which {
	case "active":
		return r.listActive()
	case "completed":
		return r.listCompleted()
	default:
		return fmt.Errorf("unknown list %q (expected 'active' or 'completed')", which)
	}
}

func (r *REPL) listActive() error {
	if err := r.engine.Reload(r.ctx); err != nil {
		return err
	}

	tasks := r.engine.Tasks()
	if len(tasks) == 0 {
		fmt.Println("No active tasks. Nice.")
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	now := time.Now()

	for _, tier := range types.AllTiers() {
		inTier := r.engine.ActiveTasks(tier)
		if len(inTier) == 0 {
			continue
		}
		fmt.Printf("\n%s\n", bold(tier.DisplayName()))
		for _, t := range inTier {
			fmt.Printf("  %s %s\n", t.Title, dim("("+t.DwellString(now)+" in tier)"))
		}
	}
	fmt.Println()
	return nil
}

func (r *REPL) listCompleted() error {
	if err := r.engine.ReloadCompleted(r.ctx); err != nil {
		return err
	}

	tasks := r.engine.CompletedTasks()
	if len(tasks) == 0 {
		fmt.Println("No completed tasks.")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Println()
	for _, t := range tasks {
		when := ""
		if t.CompletedAt != nil {
			when = t.CompletedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %s %s %s\n", green("✓"), t.Title, dim(when))
	}
	fmt.Println()
	return nil
}

// cmdAdd adds a task: "add <tier> <title...>".
func (r *REPL) cmdAdd(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: add <tier> <title>")
	}

	tier, ok := types.ParseTier(args[0])
	if !ok {
		return fmt.Errorf("unknown tier %q (expected L1, L2, L3, or MEM)", args[0])
	}

	title := strings.Join(args[1:], " ")
	task, err := r.engine.AddTask(r.ctx, title, tier)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Added %q to %s\n", green("✓"), task.Title, tier.DisplayName())
	return nil
}

// cmdDone completes the task matching the given substring.
func (r *REPL) cmdDone(args []string) error {
	task, err := r.matchTask(args, "done")
	if err != nil {
		return err
	}

	if err := r.engine.CompleteTask(r.ctx, task.ID); err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Completed %q\n", green("✓"), task.Title)
	return nil
}

// cmdPromote moves the matching task one tier toward L1.
func (r *REPL) cmdPromote(args []string) error {
	task, err := r.matchTask(args, "promote")
	if err != nil {
		return err
	}

	target, ok := task.Tier.Promoted()
	if !ok {
		fmt.Printf("%q is already at %s\n", task.Title, task.Tier.DisplayName())
		return nil
	}

	if err := r.engine.PromoteTask(r.ctx, task.ID); err != nil {
		return err
	}
	fmt.Printf("Promoted %q to %s\n", task.Title, target.DisplayName())
	return nil
}

// cmdSnooze moves the matching task one tier toward MEM.
func (r *REPL) cmdSnooze(args []string) error {
	task, err := r.matchTask(args, "snooze")
	if err != nil {
		return err
	}

	target, ok := task.Tier.Demoted()
	if !ok {
		fmt.Printf("%q is already at %s\n", task.Title, task.Tier.DisplayName())
		return nil
	}

	if err := r.engine.SnoozeTask(r.ctx, task.ID); err != nil {
		return err
	}
	fmt.Printf("Snoozed %q to %s\n", task.Title, target.DisplayName())
	return nil
}

// cmdClear handles "clear completed".
func (r *REPL) cmdClear(args []string) error {
	if len(args) != 1 || strings.ToLower(args[0]) != "completed" {
		return fmt.Errorf("usage: clear completed")
	}

	n, err := r.engine.ClearCompleted(r.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Cleared %d completed task(s)\n", n)
	return nil
}

// cmdStatus prints per-tier counts and the last escalation time.
func (r *REPL) cmdStatus(args []string) error {
	if err := r.engine.Reload(r.ctx); err != nil {
		return err
	}

	counts := r.engine.GroupedCounts()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Println()
	for _, tier := range types.AllTiers() {
		fmt.Printf("  %s %d\n", bold(fmt.Sprintf("%-4s", tier.DisplayName())), counts[tier])
	}

	if hot, ok := r.engine.HighestActiveTier(); ok {
		fmt.Printf("\n  Hottest occupied tier: %s\n", hot.DisplayName())
	}
	if last := r.engine.LastEscalationTime(); last != nil {
		fmt.Printf("  Last escalation: %s\n", last.Format("2006-01-02 15:04:05"))
	}
	fmt.Println()
	return nil
}

// cmdHistory prints the recent audit trail, newest first.
func (r *REPL) cmdHistory(args []string) error {
	if r.store == nil {
		return fmt.Errorf("history is unavailable without a store")
	}

	events, err := r.store.GetEvents(r.ctx, 50)
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
}

// matchTask resolves a command argument to an active task by
// case-insensitive substring match, reloading the snapshot first so
// matching sees fresh state.
func (r *REPL) matchTask(args []string, cmd string) (*types.Task, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("usage: %s <task-match>", cmd)
	}

	if err := r.engine.Reload(r.ctx); err != nil {
		return nil, err
	}

	match := strings.Join(args, " ")
	task, err := r.engine.FindActive(match)
	if err != nil {
		if errors.Is(err, engine.ErrTaskNotFound) {
			return nil, fmt.Errorf("not found: no active task matching %q", match)
		}
		return nil, err
	}
	return task, nil
}
