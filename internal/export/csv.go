package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/mazeviz/internal/maze"
)

var csvHeader = []string{
	"index", "turn",
	"theseus_row", "theseus_col",
	"minotaur_row", "minotaur_col",
	"exit_row", "exit_col",
	"gap", "exit_distance",
}

// WriteCSV writes one row per decoded instance from 0 through last. Instances
// that fail to decode are left out and returned.
func WriteCSV(w io.Writer, dec *maze.Decoder, last int) ([]int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	if last >= dec.Len() {
		last = dec.Len() - 1
	}

	var skipped []int
	for i := 0; i <= last; i++ {
		d, err := dec.Decode(i)
		if err != nil {
			skipped = append(skipped, i)
			continue
		}
		row := []string{
			strconv.Itoa(i), d.Turn.String(),
			strconv.Itoa(d.Evader.Row), strconv.Itoa(d.Evader.Col),
			strconv.Itoa(d.Pursuer.Row), strconv.Itoa(d.Pursuer.Col),
			strconv.Itoa(d.Exit.Row), strconv.Itoa(d.Exit.Col),
			strconv.Itoa(maze.Manhattan(d.Evader, d.Pursuer)),
			strconv.Itoa(maze.Manhattan(d.Evader, d.Exit)),
		}
		if err := cw.Write(row); err != nil {
			return skipped, err
		}
	}
	cw.Flush()
	return skipped, cw.Error()
}

func ExportCSV(path string, dec *maze.Decoder, last int) ([]int, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	skipped, err := WriteCSV(f, dec, last)
	if err != nil {
		f.Close()
		return skipped, err
	}
	return skipped, f.Close()
}
