package viz

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mazeviz/internal/trace"
)

// FrameMsg carries a navigator frame into the program.
type FrameMsg trace.Frame

// Sink is a trace.Renderer that queues frames for a program. Frames are
// delivered in the order they were rendered.
type Sink struct {
	frames chan trace.Frame
	done   chan struct{}
	once   sync.Once
}

func NewSink(buffer int) *Sink {
	return &Sink{
		frames: make(chan trace.Frame, buffer),
		done:   make(chan struct{}),
	}
}

// Render queues f. It drops the frame once the sink is closed.
func (s *Sink) Render(f trace.Frame) {
	select {
	case s.frames <- f:
	case <-s.done:
	}
}

// Forward sends queued frames to p until Close is called.
func (s *Sink) Forward(p interface{ Send(tea.Msg) }) {
	for {
		select {
		case f := <-s.frames:
			p.Send(FrameMsg(f))
		case <-s.done:
			return
		}
	}
}

func (s *Sink) Close() { s.once.Do(func() { close(s.done) }) }

var _ trace.Renderer = (*Sink)(nil)
