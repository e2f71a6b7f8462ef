package viz

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/mazeviz/internal/maze"
	"github.com/san-kum/mazeviz/internal/trace"
)

// Cell size in characters, walls included on one side.
const (
	cellCols = 8
	cellRows = 4
)

var markerRunes = map[maze.Player]rune{
	maze.Evader:  'T',
	maze.Pursuer: 'M',
}

// CanvasFor returns a canvas sized for a grid.
func CanvasFor(d maze.Dims) *Canvas {
	return NewCanvas(d.Width*cellCols+1, d.Height*cellRows+1)
}

// DrawMaze paints f onto c. While a transition runs, the mover is drawn
// between its two cells according to the playback at now; cellSize is the
// pixel size the playback offsets are measured in.
func DrawMaze(c *Canvas, f trace.Frame, cellSize int, now time.Time) {
	c.Clear()
	d := f.Maze

	for r := 0; r <= d.Dims.Height; r++ {
		for col := 0; col <= d.Dims.Width; col++ {
			c.Set(col*cellCols, r*cellRows, '+', InkWall)
		}
	}

	for _, row := range d.Cells {
		for _, cell := range row {
			x0, y0 := cell.Coord.Col*cellCols, cell.Coord.Row*cellRows
			x1, y1 := x0+cellCols, y0+cellRows
			if cell.Walls.North() {
				c.HLine(x0+1, x1-1, y0, '─', InkWall)
			}
			if cell.Walls.South() {
				c.HLine(x0+1, x1-1, y1, '─', InkWall)
			}
			if cell.Walls.West() {
				c.VLine(x0, y0+1, y1-1, '│', InkWall)
			}
			if cell.Walls.East() {
				c.VLine(x1, y0+1, y1-1, '│', InkWall)
			}

			line := y0 + 1
			if f.Flags.ShowIndices {
				c.Text(x0+1, line, fmt.Sprintf("%d,%d", cell.Coord.Row, cell.Coord.Col), InkLabel)
				line++
			}
			if f.Flags.ShowDistance {
				c.Text(x0+1, line, fmt.Sprintf("%d", maze.Manhattan(cell.Coord, d.Evader)), InkLabel)
			}
		}
	}

	cx, cy := center(d.Exit)
	c.Set(cx, cy, 'E', InkExit)

	for _, p := range []maze.Player{maze.Evader, maze.Pursuer} {
		x, y := center(d.Position(p))
		pb := f.Playback
		if pb != nil && pb.Mover == p {
			x, y = center(pb.From)
			if cellSize > 0 {
				dx, dy := pb.Offset(now)
				x += int(math.Round(dx / float64(cellSize) * cellCols))
				y += int(math.Round(dy / float64(cellSize) * cellRows))
			}
			if pb.Denied && pb.PulseOpacity(now) > 0 {
				c.Set(x+1, y, '✗', InkDenied)
			}
		}
		ink := InkEvader
		if p == maze.Pursuer {
			ink = InkPursuer
		}
		c.Set(x, y, markerRunes[p], ink)
	}
}

func center(at maze.Coord) (int, int) {
	return at.Col*cellCols + cellCols/2, at.Row*cellRows + cellRows/2
}
