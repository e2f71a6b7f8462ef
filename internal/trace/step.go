package trace

import (
	"context"

	"github.com/san-kum/mazeviz/internal/anim"
)

// Step is a forward move in flight. It resolves once the animation has
// finished and the navigator has committed the new index.
type Step struct {
	From, To int
	Playback *anim.Playback

	done chan struct{}
}

// Done is closed after the step has been committed.
func (s *Step) Done() <-chan struct{} { return s.done }

// Wait blocks until the step is committed or ctx is done. Giving up on the
// wait does not cancel the step.
func (s *Step) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
