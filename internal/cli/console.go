package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/futig/pdfqa/internal/entity"
)

// Console serializes writes from the REPL, the flow notifier and the
// folder watcher onto one writer.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Println(args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, args...)
}

// Notify prints a flow notification as "[Title] Description".
func (c *Console) Notify(_ context.Context, n entity.Notification) {
	c.Printf("[%s] %s\n", n.Title, n.Description)
}
