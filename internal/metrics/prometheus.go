package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/mazeviz/internal/maze"
	"github.com/san-kum/mazeviz/internal/trace"
)

// Observer exports navigator events as Prometheus series.
type Observer struct {
	transitions  *prometheus.CounterVec
	settles      prometheus.Counter
	denied       prometheus.Counter
	decodeErrors prometheus.Counter
	index        prometheus.Gauge
	gap          prometheus.Gauge
}

func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mazeviz_transitions_total",
				Help: "Animated forward steps started, by mover",
			},
			[]string{"mover"},
		),
		settles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mazeviz_settles_total",
			Help: "Frames rendered in a settled state",
		}),
		denied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mazeviz_denied_moves_total",
			Help: "Forward steps where the mover stayed in place",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mazeviz_decode_errors_total",
			Help: "Instances that failed to decode",
		}),
		index: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mazeviz_cursor_index",
			Help: "Current trace index",
		}),
		gap: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mazeviz_gap",
			Help: "Manhattan distance between Theseus and the Minotaur",
		}),
	}
	reg.MustRegister(o.transitions, o.settles, o.denied, o.decodeErrors, o.index, o.gap)
	return o
}

func (o *Observer) OnTransition(f trace.Frame) {
	if f.Playback == nil {
		return
	}
	o.transitions.WithLabelValues(f.Playback.Mover.String()).Inc()
	if f.Playback.Denied {
		o.denied.Inc()
	}
}

func (o *Observer) OnSettle(f trace.Frame) {
	o.settles.Inc()
	o.index.Set(float64(f.Index))
	o.gap.Set(float64(maze.Manhattan(f.Maze.Evader, f.Maze.Pursuer)))
}

func (o *Observer) OnDecodeError(int, error) { o.decodeErrors.Inc() }

var _ trace.Observer = (*Observer)(nil)
