package metrics

import (
	"github.com/san-kum/mazeviz/internal/maze"
)

// Series holds per-index distances for plotting.
type Series struct {
	Gap  []float64
	Exit []float64
	// Index holds the trace index of each entry.
	Index []int
}

// Result is the outcome of walking a trace.
type Result struct {
	Steps   int
	Won     bool
	Caught  bool
	Series  Series
	Metrics map[string]float64
	// Skipped lists indices that failed to decode.
	Skipped []int
}

// Collect decodes indices 0 through last and feeds every metric. Instances
// that fail to decode are skipped; the next good one is compared with the
// last good one.
func Collect(dec *maze.Decoder, last int, ms ...Metric) Result {
	if last >= dec.Len() {
		last = dec.Len() - 1
	}
	res := Result{Metrics: make(map[string]float64, len(ms))}
	for _, m := range ms {
		m.Reset()
	}

	var prev *maze.Decoded
	for i := 0; i <= last; i++ {
		cur, err := dec.Decode(i)
		if err != nil {
			res.Skipped = append(res.Skipped, i)
			continue
		}
		for _, m := range ms {
			m.Observe(prev, cur)
		}
		res.Series.Index = append(res.Series.Index, i)
		res.Series.Gap = append(res.Series.Gap, float64(maze.Manhattan(cur.Evader, cur.Pursuer)))
		res.Series.Exit = append(res.Series.Exit, float64(maze.Manhattan(cur.Evader, cur.Exit)))
		if prev != nil {
			res.Steps++
		}
		res.Won = res.Won || cur.Won()
		res.Caught = res.Caught || cur.Caught()
		c := cur
		prev = &c
	}

	for _, m := range ms {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}
