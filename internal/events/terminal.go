package events

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// TerminalNotifier writes escalation notifications to a terminal stream.
type TerminalNotifier struct {
	out io.Writer
}

// NewTerminalNotifier creates a notifier writing to out.
func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out}
}

// Notify prints a one-line escalation banner.
func (n *TerminalNotifier) Notify(ctx context.Context, ev TaskEscalated) error {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	_, err := fmt.Fprintf(n.out, "%s %q moved up to %s\n",
		yellow("⬆ escalated:"), ev.TaskTitle, ev.NewTier.DisplayName())
	return err
}

// Name returns the notifier type for logging
func (n *TerminalNotifier) Name() string { return "terminal" }
