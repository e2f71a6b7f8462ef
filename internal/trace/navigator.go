// Package trace moves a cursor over the instances of a trace, bounded by
// the first instance where Theseus reaches the exit.
package trace

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/san-kum/mazeviz/internal/anim"
	"github.com/san-kum/mazeviz/internal/instance"
	"github.com/san-kum/mazeviz/internal/logging"
	"github.com/san-kum/mazeviz/internal/maze"
)

// Navigator owns the cursor of one visualization session.
//
// mu guards the cursor state. Frames are published while holding rmu, which
// is taken before mu is released, so a transition frame is always rendered
// before the frame of the step it starts settles.
type Navigator struct {
	mu  sync.Mutex
	rmu sync.Mutex

	dec       *maze.Decoder
	animator  *anim.Animator
	renderers []Renderer
	observers []Observer
	logger    *slog.Logger
	session   string

	cursor   atomic.Int64
	index    int
	maxIndex int
	winIndex int
	won      bool
	state    State
	current  maze.Decoded
	flags    Flags
	playback *anim.Playback
	pending  *Step
}

type event int

const (
	eventSettle event = iota
	eventTransition
	eventRefresh
)

type Option func(*Navigator)

func WithRenderer(r Renderer) Option {
	return func(n *Navigator) { n.renderers = append(n.renderers, r) }
}

func WithObserver(o Observer) Option {
	return func(n *Navigator) { n.observers = append(n.observers, o) }
}

func WithLogger(l *slog.Logger) Option {
	return func(n *Navigator) { n.logger = l }
}

func WithFlags(f Flags) Option {
	return func(n *Navigator) { n.flags = f }
}

// New scans the trace for the win index, decodes the first instance and
// publishes the first frame. acc, when given, is bound to the navigator's
// cursor.
func New(dec *maze.Decoder, animator *anim.Animator, acc *instance.Accessor, opts ...Option) (*Navigator, error) {
	n := &Navigator{
		dec:      dec,
		animator: animator,
		logger:   logging.NewNop(),
		session:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With("session", n.session)
	if n.animator == nil {
		n.animator = anim.New(0, 0, 0)
	}
	if dec.Len() == 0 {
		return nil, instance.ErrEmptyTrace
	}

	n.winIndex, n.won = FindWin(dec, n.logger)
	n.maxIndex = n.winIndex

	first, err := dec.Decode(0)
	if err != nil {
		n.notifyDecodeError(0, err)
		return nil, err
	}
	n.current = first
	n.state = n.settled()
	if acc != nil {
		acc.Bind(n)
	}
	n.logger.Info("trace loaded", "instances", dec.Len(), "win_index", n.winIndex, "won", n.won)

	n.mu.Lock()
	n.publish(n.snapshot(), eventSettle)
	return n, nil
}

// FindWin returns the first index where Theseus stands on the exit, or the
// last index when that never happens. Instances that cannot be resolved are
// logged and skipped.
func FindWin(dec *maze.Decoder, logger *slog.Logger) (int, bool) {
	for i := 0; i < dec.Len(); i++ {
		evader, exit, err := dec.Goal(i)
		if err != nil {
			logger.Warn("win scan skipped instance", "index", i, "error", err)
			continue
		}
		if evader == exit {
			return i, true
		}
	}
	return dec.Len() - 1, false
}

// Index is the current cursor position. It is safe to call from renderers.
func (n *Navigator) Index() int { return int(n.cursor.Load()) }

func (n *Navigator) MaxIndex() int { return n.maxIndex }
func (n *Navigator) WinIndex() int { return n.winIndex }
func (n *Navigator) Len() int      { return n.dec.Len() }
func (n *Navigator) Session() string {
	return n.session
}

// Pending returns the step in flight, if any.
func (n *Navigator) Pending() *Step {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending
}

// State returns the current input state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Frame returns what a renderer would be given now.
func (n *Navigator) Frame() Frame {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshot()
}

// SeekFirst jumps to index 0.
func (n *Navigator) SeekFirst() error { return n.seek(func() int { return 0 }) }

// SeekLast jumps to the last reachable index.
func (n *Navigator) SeekLast() error { return n.seek(func() int { return n.maxIndex }) }

// StepBack moves one instance back without animation.
func (n *Navigator) StepBack() error {
	return n.seek(func() int {
		if n.index == 0 {
			return 0
		}
		return n.index - 1
	})
}

func (n *Navigator) seek(target func() int) error {
	n.mu.Lock()
	if n.state == Transitioning {
		n.mu.Unlock()
		return nil
	}
	to := target()
	if to == n.index {
		n.mu.Unlock()
		return nil
	}
	d, err := n.dec.Decode(to)
	if err != nil {
		n.mu.Unlock()
		n.notifyDecodeError(to, err)
		return err
	}
	n.logger.Debug("seek", "from", n.index, "to", to)
	n.setIndex(to)
	n.current = d
	n.state = n.settled()
	n.publish(n.snapshot(), eventSettle)
	return nil
}

// StepForward starts an animated move to the next instance. It returns nil
// without doing anything at the last reachable index or while another step
// is running. The index changes only when the returned step resolves.
func (n *Navigator) StepForward() (*Step, error) {
	n.mu.Lock()
	if n.state == Transitioning || n.index >= n.maxIndex {
		n.mu.Unlock()
		return nil, nil
	}
	to := n.index + 1
	next, err := n.dec.Decode(to)
	if err != nil {
		n.mu.Unlock()
		n.notifyDecodeError(to, err)
		return nil, err
	}

	tr := n.animator.Plan(n.current, next)
	n.logger.Debug("step forward",
		"from", n.index,
		"to", to,
		"mover", tr.Mover,
		"dx", tr.DX,
		"dy", tr.DY,
		"denied", tr.Denied,
	)
	n.state = Transitioning
	n.playback = n.animator.Start(tr)
	step := &Step{From: n.index, To: to, Playback: n.playback, done: make(chan struct{})}
	n.pending = step
	go n.complete(step, next)

	n.publish(n.snapshot(), eventTransition)
	return step, nil
}

func (n *Navigator) complete(step *Step, next maze.Decoded) {
	<-step.Playback.Done()
	n.mu.Lock()
	n.setIndex(step.To)
	n.current = next
	n.playback = nil
	n.pending = nil
	n.state = n.settled()
	if n.state == Terminal {
		n.logger.Info("reached last instance", "index", n.index, "won", n.won)
	}
	n.publish(n.snapshot(), eventSettle)
	close(step.done)
}

// ToggleIndices flips the cell index overlay.
func (n *Navigator) ToggleIndices() {
	n.mu.Lock()
	n.flags.ShowIndices = !n.flags.ShowIndices
	n.publish(n.snapshot(), eventRefresh)
}

// ToggleDistance flips the distance-to-Theseus overlay.
func (n *Navigator) ToggleDistance() {
	n.mu.Lock()
	n.flags.ShowDistance = !n.flags.ShowDistance
	n.publish(n.snapshot(), eventRefresh)
}

// Play steps forward until the last reachable index, waiting for every
// animation. It stops early when ctx is done; a step already started still
// completes.
func (n *Navigator) Play(ctx context.Context) error {
	for {
		step, err := n.StepForward()
		if err != nil {
			return err
		}
		if step == nil {
			step = n.Pending()
		}
		if step == nil {
			return nil
		}
		if err := step.Wait(ctx); err != nil {
			return err
		}
	}
}

func (n *Navigator) setIndex(i int) {
	n.index = i
	n.cursor.Store(int64(i))
}

func (n *Navigator) settled() State {
	if n.index == n.maxIndex {
		return Terminal
	}
	return Idle
}

// snapshot requires mu.
func (n *Navigator) snapshot() Frame {
	return Frame{
		Session:  n.session,
		Maze:     n.current,
		Index:    n.index,
		MaxIndex: n.maxIndex,
		Len:      n.dec.Len(),
		State:    n.state,
		Flags:    n.flags,
		Disabled: n.state == Transitioning,
		Playback: n.playback,
		Won:      n.current.Won(),
	}
}

// publish requires mu and releases it.
func (n *Navigator) publish(f Frame, ev event) {
	n.rmu.Lock()
	n.mu.Unlock()
	defer n.rmu.Unlock()
	for _, r := range n.renderers {
		r.Render(f)
	}
	for _, o := range n.observers {
		switch ev {
		case eventSettle:
			o.OnSettle(f)
		case eventTransition:
			o.OnTransition(f)
		}
	}
}

func (n *Navigator) notifyDecodeError(index int, err error) {
	n.logger.Error("decode failed", "index", index, "error", err)
	for _, o := range n.observers {
		o.OnDecodeError(index, err)
	}
}
