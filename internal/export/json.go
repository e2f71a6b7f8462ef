package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mazeviz/internal/maze"
)

// TraceData is the JSON document written by export-json.
type TraceData struct {
	Instances int                `json:"instances"`
	WinIndex  int                `json:"win_index"`
	Won       bool               `json:"won"`
	Dims      maze.Dims          `json:"dims"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Mazes     []maze.Decoded     `json:"mazes"`
	Skipped   []int              `json:"skipped,omitempty"`
}

// BuildTraceData decodes indices 0 through last. Instances that fail to
// decode are listed in Skipped.
func BuildTraceData(dec *maze.Decoder, winIndex int, won bool, last int) TraceData {
	data := TraceData{
		Instances: dec.Len(),
		WinIndex:  winIndex,
		Won:       won,
		Dims:      dec.Dims(),
	}
	if last >= dec.Len() {
		last = dec.Len() - 1
	}
	for i := 0; i <= last; i++ {
		d, err := dec.Decode(i)
		if err != nil {
			data.Skipped = append(data.Skipped, i)
			continue
		}
		data.Mazes = append(data.Mazes, d)
	}
	return data
}

func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func ExportJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, v); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
