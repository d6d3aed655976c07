package notifier

import (
	"fmt"
	"io"
	"os"
)

// ConsoleNotifier prints the message instead of delivering it. Used for
// --print-only runs and when Telegram credentials are absent.
type ConsoleNotifier struct {
	out io.Writer
}

// NewConsoleNotifier creates a console notifier writing to stdout.
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{out: os.Stdout}
}

// NewConsoleNotifierTo creates a console notifier writing to out.
func NewConsoleNotifierTo(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

// Notify prints the message framed so it stands out from run logging.
func (n *ConsoleNotifier) Notify(message string) error {
	_, err := fmt.Fprintf(n.out, "\n--- MESSAGE ---\n%s\n", message)
	return err
}
