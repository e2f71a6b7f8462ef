// Package anim plans and times the move of one player between two decoded
// instances.
package anim

import (
	"math"
	"sync"
	"time"

	"github.com/san-kum/mazeviz/internal/maze"
)

const (
	DefaultDuration      = 500 * time.Millisecond
	DefaultPulseDuration = 300 * time.Millisecond
	DefaultCellSize      = 70
)

// Transition describes the motion between two instances.
type Transition struct {
	Mover    maze.Player
	From, To maze.Coord
	// DX and DY are the pixel displacement of the mover.
	DX, DY int
	// Denied is set when the mover stayed in place.
	Denied   bool
	Duration time.Duration
	Pulse    time.Duration
}

// Animator owns the timing parameters of forward steps.
type Animator struct {
	CellSize      int
	Duration      time.Duration
	PulseDuration time.Duration

	// after schedules a one-shot timer; swapped in tests.
	after func(time.Duration) <-chan time.Time
	now   func() time.Time
}

func New(cellSize int, duration, pulse time.Duration) *Animator {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	if pulse <= 0 {
		pulse = DefaultPulseDuration
	}
	if pulse >= duration {
		pulse = duration * 3 / 5
	}
	return &Animator{
		CellSize:      cellSize,
		Duration:      duration,
		PulseDuration: pulse,
		after:         time.After,
		now:           time.Now,
	}
}

// WithClock replaces the timer source and wall clock.
func (a *Animator) WithClock(after func(time.Duration) <-chan time.Time, now func() time.Time) *Animator {
	c := *a
	if after != nil {
		c.after = after
	}
	if now != nil {
		c.now = now
	}
	return &c
}

// Plan computes the move of the player whose turn it is in from.
func (a *Animator) Plan(from, to maze.Decoded) Transition {
	mover := from.Turn
	src, dst := from.Position(mover), to.Position(mover)
	dx := (dst.Col - src.Col) * a.CellSize
	dy := (dst.Row - src.Row) * a.CellSize
	return Transition{
		Mover:    mover,
		From:     src,
		To:       dst,
		DX:       dx,
		DY:       dy,
		Denied:   dx == 0 && dy == 0,
		Duration: a.Duration,
		Pulse:    a.PulseDuration,
	}
}

// Start runs tr. The returned playback resolves Done exactly once when the
// main transition ends; the denied pulse runs alongside and does not delay it.
func (a *Animator) Start(tr Transition) *Playback {
	p := &Playback{
		Transition: tr,
		Started:    a.now(),
		done:       make(chan struct{}),
		pulseDone:  make(chan struct{}),
	}
	main := a.after(tr.Duration)
	go func() {
		<-main
		p.finish()
	}()
	if tr.Denied {
		pulse := a.after(tr.Pulse)
		go func() {
			<-pulse
			close(p.pulseDone)
		}()
	} else {
		close(p.pulseDone)
	}
	return p
}

// Playback is a running transition.
type Playback struct {
	Transition
	Started time.Time

	once      sync.Once
	done      chan struct{}
	pulseDone chan struct{}
}

func (p *Playback) finish() { p.once.Do(func() { close(p.done) }) }

// Done is closed when the transition has run its full duration.
func (p *Playback) Done() <-chan struct{} { return p.done }

// PulseDone is closed when the denied pulse ends, or immediately when there is none.
func (p *Playback) PulseDone() <-chan struct{} { return p.pulseDone }

// Progress is the eased completion in [0, 1] at now.
func (p *Playback) Progress(now time.Time) float64 {
	return sinInOut(fraction(now.Sub(p.Started), p.Duration))
}

// Offset is the pixel displacement of the mover at now.
func (p *Playback) Offset(now time.Time) (x, y float64) {
	k := p.Progress(now)
	return float64(p.DX) * k, float64(p.DY) * k
}

// PulseOpacity fades the denied marker from 1 to 0. It is 0 when the move was not denied.
func (p *Playback) PulseOpacity(now time.Time) float64 {
	if !p.Denied {
		return 0
	}
	return 1 - quadIn(fraction(now.Sub(p.Started), p.Pulse))
}

func fraction(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	f := float64(elapsed) / float64(total)
	return math.Max(0, math.Min(1, f))
}

func sinInOut(t float64) float64 { return (1 - math.Cos(math.Pi*t)) / 2 }

func quadIn(t float64) float64 { return t * t }
