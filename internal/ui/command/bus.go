package command

import (
	"fmt"

	"github.com/atomicstack/marking-menu/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates one command produced by a panel handler.
type Request struct {
	ID    string
	Label string
	Cmd   tea.Cmd
}

// Bus coordinates the execution of handler commands.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps a handler command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Cmd == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		msg := req.Cmd()
		if msg == nil {
			events.Command.NoOp(req.ID, req.Label)
			return nil
		}
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
