package main

import (
	"fmt"
	"io"

	"github.com/san-kum/mazeviz/internal/maze"
	"github.com/san-kum/mazeviz/internal/trace"
)

// printObserver writes one line per navigator event.
type printObserver struct {
	w io.Writer
}

func newPrintObserver(w io.Writer) *printObserver { return &printObserver{w: w} }

func (p *printObserver) OnTransition(f trace.Frame) {
	if f.Playback == nil {
		return
	}
	pb := f.Playback
	if pb.Denied {
		fmt.Fprintf(p.w, "%3d -> %-3d %-8s stays at %s\n", f.Index, f.Index+1, pb.Mover, pb.From)
		return
	}
	fmt.Fprintf(p.w, "%3d -> %-3d %-8s %s -> %s\n", f.Index, f.Index+1, pb.Mover, pb.From, pb.To)
}

func (p *printObserver) OnSettle(f trace.Frame) {
	m := f.Maze
	fmt.Fprintf(p.w, "%3d        theseus %s  minotaur %s  gap %d\n",
		f.Index, m.Evader, m.Pursuer, maze.Manhattan(m.Evader, m.Pursuer))
}

func (p *printObserver) OnDecodeError(index int, err error) {
	fmt.Fprintf(p.w, "%3d        decode failed: %v\n", index, err)
}
