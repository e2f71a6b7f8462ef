// Package metrics summarises a played-out trace and exports navigator
// activity to Prometheus.
package metrics

import (
	"math"

	"github.com/san-kum/mazeviz/internal/maze"
)

// Metric accumulates one statistic over consecutive decoded instances.
// prev is nil for the first instance.
type Metric interface {
	Name() string
	Observe(prev *maze.Decoded, cur maze.Decoded)
	Value() float64
	Reset()
}

// Moves counts the steps one player actually took.
type Moves struct {
	name   string
	player maze.Player
	count  int
}

func NewMoves(p maze.Player) *Moves {
	return &Moves{name: p.String() + "_moves", player: p}
}

func (m *Moves) Name() string { return m.name }

func (m *Moves) Observe(prev *maze.Decoded, cur maze.Decoded) {
	if prev == nil || prev.Turn != m.player {
		return
	}
	if prev.Position(m.player) != cur.Position(m.player) {
		m.count++
	}
}

func (m *Moves) Value() float64 { return float64(m.count) }
func (m *Moves) Reset()         { m.count = 0 }

// Stalls counts turns where the mover stayed in place.
type Stalls struct {
	count int
}

func NewStalls() *Stalls { return &Stalls{} }

func (s *Stalls) Name() string { return "stalls" }

func (s *Stalls) Observe(prev *maze.Decoded, cur maze.Decoded) {
	if prev == nil {
		return
	}
	if prev.Position(prev.Turn) == cur.Position(prev.Turn) {
		s.count++
	}
}

func (s *Stalls) Value() float64 { return float64(s.count) }
func (s *Stalls) Reset()         { s.count = 0 }

// MinGap is the closest the Minotaur came to Theseus, in Manhattan distance.
type MinGap struct {
	min     int
	samples int
}

func NewMinGap() *MinGap { return &MinGap{} }

func (g *MinGap) Name() string { return "min_gap" }

func (g *MinGap) Observe(_ *maze.Decoded, cur maze.Decoded) {
	d := maze.Manhattan(cur.Evader, cur.Pursuer)
	if g.samples == 0 || d < g.min {
		g.min = d
	}
	g.samples++
}

func (g *MinGap) Value() float64 {
	if g.samples == 0 {
		return math.NaN()
	}
	return float64(g.min)
}

func (g *MinGap) Reset() {
	g.min = 0
	g.samples = 0
}

// ExitDistance is Theseus' distance to the exit at the last observed instance.
type ExitDistance struct {
	last    int
	samples int
}

func NewExitDistance() *ExitDistance { return &ExitDistance{} }

func (e *ExitDistance) Name() string { return "exit_distance" }

func (e *ExitDistance) Observe(_ *maze.Decoded, cur maze.Decoded) {
	e.last = maze.Manhattan(cur.Evader, cur.Exit)
	e.samples++
}

func (e *ExitDistance) Value() float64 {
	if e.samples == 0 {
		return math.NaN()
	}
	return float64(e.last)
}

func (e *ExitDistance) Reset() {
	e.last = 0
	e.samples = 0
}

// Defaults are the metrics reported by the stats command.
func Defaults() []Metric {
	return []Metric{
		NewMoves(maze.Evader),
		NewMoves(maze.Pursuer),
		NewStalls(),
		NewMinGap(),
		NewExitDistance(),
	}
}
