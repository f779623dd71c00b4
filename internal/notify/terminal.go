package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Terminal prints setup alerts to a writer, for interactive runs.
type Terminal struct {
	out io.Writer
}

// NewTerminal builds a terminal notifier writing to stdout.
func NewTerminal() *Terminal {
	return &Terminal{out: os.Stdout}
}

// NewTerminalWriter builds a terminal notifier writing to w.
func NewTerminalWriter(w io.Writer) *Terminal {
	return &Terminal{out: w}
}

// Notify prints one block per setup.
func (t *Terminal) Notify(ctx context.Context, setups []Setup) error {
	if len(setups) == 0 {
		fmt.Fprintln(t.out, "No setups found.")
		return nil
	}
	_, err := io.WriteString(t.out, formatBody(setups))
	return err
}
