package viz

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mazeviz/internal/trace"
)

// Run shows the maze view until the user quits. Frames rendered into sink
// reach the view while it runs.
func Run(cmds Commands, first trace.Frame, sink *Sink, opts Options) error {
	p := tea.NewProgram(NewModel(cmds, first, opts), tea.WithAltScreen())
	go sink.Forward(p)
	defer sink.Close()
	_, err := p.Run()
	return err
}
