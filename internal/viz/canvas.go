package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Ink selects the style a canvas cell is drawn with.
type Ink int

const (
	InkNone Ink = iota
	InkWall
	InkFloor
	InkLabel
	InkExit
	InkEvader
	InkPursuer
	InkDenied
	inkCount
)

// Canvas is a grid of runes, each painted with an ink.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	ink           [][]Ink
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		ink:    make([][]Ink, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.ink[i] = make([]Ink, w)
	}
	c.Clear()
	return c
}

// Set writes r at column x, row y. Out of range writes are dropped.
func (c *Canvas) Set(x, y int, r rune, ink Ink) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Grid[y][x] = r
	c.ink[y][x] = ink
}

// Text writes s starting at column x.
func (c *Canvas) Text(x, y int, s string, ink Ink) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r, ink)
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = ' '
			c.ink[i][j] = InkNone
		}
	}
}

// HLine draws a horizontal run of r from x0 to x1 inclusive.
func (c *Canvas) HLine(x0, x1, y int, r rune, ink Ink) {
	for x := x0; x <= x1; x++ {
		c.Set(x, y, r, ink)
	}
}

// VLine draws a vertical run of r from y0 to y1 inclusive.
func (c *Canvas) VLine(x, y0, y1 int, r rune, ink Ink) {
	for y := y0; y <= y1; y++ {
		c.Set(x, y, r, ink)
	}
}

// Render joins the rows, styling each run of equal ink once.
func (c *Canvas) Render(styles [inkCount]lipgloss.Style) string {
	var b strings.Builder
	for y, row := range c.Grid {
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && c.ink[y][x] == c.ink[y][start] {
				continue
			}
			b.WriteString(styles[c.ink[y][start]].Render(string(row[start:x])))
			start = x
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}
