package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/mazeviz/internal/maze"
	"github.com/san-kum/mazeviz/internal/trace"
)

const (
	wallWidth   = 2
	borderWidth = 8
	floorColor  = "#d3d3d3"
	wallColor   = "#000000"
	borderColor = "#e1b31e"
)

var markerColors = map[string]string{
	"exit":     "#2e8b57",
	"theseus":  "#1e6fd9",
	"minotaur": "#b22222",
}

// MazeToSVG draws a decoded maze with cellSize pixel squares. Overlays
// follow flags.
func MazeToSVG(d maze.Decoded, cellSize int, flags trace.Flags) string {
	if cellSize <= 0 {
		cellSize = 70
	}
	cs := float64(cellSize)
	width := float64(d.Dims.Width)*cs + 2*borderWidth
	height := float64(d.Dims.Height)*cs + 2*borderWidth

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<title>instance %d</title>
<rect width="100%%" height="100%%" fill="%s"/>
<g transform="translate(%d,%d)" font-family="monospace" font-size="%.0f">
`, width, height, width, height, d.Index, borderColor, borderWidth, borderWidth, cs/6))

	for _, row := range d.Cells {
		for _, c := range row {
			x := float64(c.Coord.Col) * cs
			y := float64(c.Coord.Row) * cs
			sb.WriteString(fmt.Sprintf(`<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="%s"/>
`, x, y, cs, cs, floorColor))

			line := 0
			if flags.ShowIndices {
				line++
				sb.WriteString(fmt.Sprintf(`<text class="index" x="%.0f" y="%.0f">%d,%d</text>
`, x+4, y+float64(line)*cs/5, c.Coord.Row, c.Coord.Col))
			}
			if flags.ShowDistance {
				line++
				sb.WriteString(fmt.Sprintf(`<text class="distance" x="%.0f" y="%.0f">%d</text>
`, x+4, y+float64(line)*cs/5, maze.Manhattan(c.Coord, d.Evader)))
			}
		}
	}

	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="%d" stroke-linecap="square">
`, wallColor, wallWidth))
	for _, row := range d.Cells {
		for _, c := range row {
			writeWalls(&sb, c, cs)
		}
	}
	sb.WriteString("</g>\n")

	// Later markers are drawn on top, so Theseus stays visible on the exit.
	for _, m := range []struct {
		name string
		at   maze.Coord
	}{{"exit", d.Exit}, {"theseus", d.Evader}, {"minotaur", d.Pursuer}} {
		cx := float64(m.at.Col)*cs + cs/2
		cy := float64(m.at.Row)*cs + cs/2
		sb.WriteString(fmt.Sprintf(`<circle id="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, m.name, cx, cy, cs*0.3, markerColors[m.name]))
	}

	if d.Won() {
		sb.WriteString(fmt.Sprintf(`<text id="congratulations" x="%.1f" y="%.1f" text-anchor="middle" font-size="%.0f" fill="%s">Congratulations!</text>
`, width/2-borderWidth, height/2-borderWidth, cs/3, markerColors["theseus"]))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func writeWalls(sb *strings.Builder, c maze.Cell, cs float64) {
	x0 := float64(c.Coord.Col) * cs
	y0 := float64(c.Coord.Row) * cs
	x1, y1 := x0+cs, y0+cs
	segments := [4][4]float64{
		maze.North: {x0, y0, x1, y0},
		maze.East:  {x1, y0, x1, y1},
		maze.South: {x0, y1, x1, y1},
		maze.West:  {x0, y0, x0, y1},
	}
	for _, dir := range maze.Directions {
		if !c.Walls[dir] {
			continue
		}
		s := segments[dir]
		sb.WriteString(fmt.Sprintf(`<line x1="%.0f" y1="%.0f" x2="%.0f" y2="%.0f"/>
`, s[0], s[1], s[2], s[3]))
	}
}

// SeriesToSVG plots values against their index as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
