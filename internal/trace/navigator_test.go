package trace_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mazeviz/internal/anim"
	"github.com/san-kum/mazeviz/internal/instance"
	"github.com/san-kum/mazeviz/internal/logging"
	"github.com/san-kum/mazeviz/internal/maze"
	"github.com/san-kum/mazeviz/internal/mazetest"
	"github.com/san-kum/mazeviz/internal/trace"
)

// heldClock hands out timers that only fire when released.
type heldClock struct {
	mu      sync.Mutex
	pending []chan time.Time
}

func (c *heldClock) after(time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	c.pending = append(c.pending, ch)
	return ch
}

func (c *heldClock) releaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.pending {
		ch <- time.Time{}
	}
	c.pending = nil
}

type recorder struct {
	mu          sync.Mutex
	frames      []trace.Frame
	settles     int
	transitions int
	failures    []int
}

func (r *recorder) Render(f trace.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *recorder) OnTransition(trace.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions++
}

func (r *recorder) OnSettle(trace.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settles++
}

func (r *recorder) OnDecodeError(index int, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, index)
}

func (r *recorder) last() trace.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

var (
	exit = maze.Coord{Row: 0, Col: 3}
	// path reaches the exit at index 3 and leaves it again at index 4.
	path = []maze.Coord{
		{Row: 0, Col: 0},
		{Row: 0, Col: 1},
		{Row: 0, Col: 2},
		exit,
		{Row: 1, Col: 3},
	}
)

func walkTrace(steps ...maze.Coord) instance.Trace {
	base := mazetest.State{
		Minotaur: maze.Coord{Row: 3, Col: 3},
		Exit:     exit,
		Links:    mazetest.Corridor(path...),
	}
	return mazetest.Walk(base, steps...)
}

var _ = Describe("Navigator", func() {
	var (
		clock *heldClock
		rec   *recorder
		acc   *instance.Accessor
		nav   *trace.Navigator
	)

	build := func(tr instance.Trace) (*trace.Navigator, error) {
		acc = instance.NewAccessor(tr, logging.NewNop())
		dec := maze.NewDecoder(acc, maze.DefaultDims)
		animator := anim.New(70, 500*time.Millisecond, 300*time.Millisecond).WithClock(clock.after, nil)
		return trace.New(dec, animator, acc, trace.WithRenderer(rec), trace.WithObserver(rec))
	}

	// stepForward releases the animation timers and waits for the step.
	stepForward := func() {
		step, err := nav.StepForward()
		Expect(err).NotTo(HaveOccurred())
		Expect(step).NotTo(BeNil())
		clock.releaseAll()
		Eventually(step.Done()).Should(BeClosed())
	}

	BeforeEach(func() {
		clock = &heldClock{}
		rec = &recorder{}
	})

	Context("with a trace of five instances won at index 3", func() {
		BeforeEach(func() {
			var err error
			nav, err = build(walkTrace(path...))
			Expect(err).NotTo(HaveOccurred())
		})

		It("bounds the cursor by the win index", func() {
			Expect(nav.Len()).To(Equal(5))
			Expect(nav.WinIndex()).To(Equal(3))
			Expect(nav.MaxIndex()).To(Equal(3))
			Expect(nav.Index()).To(Equal(0))
			Expect(nav.State()).To(Equal(trace.Idle))
		})

		It("renders the first frame on construction", func() {
			Expect(rec.count()).To(Equal(1))
			f := rec.last()
			Expect(f.Index).To(Equal(0))
			Expect(f.Disabled).To(BeFalse())
			Expect(f.Maze.Evader).To(Equal(path[0]))
			Expect(f.CanStepBack()).To(BeFalse())
			Expect(f.CanStepForward()).To(BeTrue())
		})

		It("refuses to step past the last reachable index", func() {
			Expect(nav.SeekLast()).To(Succeed())
			Expect(nav.Index()).To(Equal(3))
			Expect(nav.State()).To(Equal(trace.Terminal))
			Expect(rec.last().Won).To(BeTrue())

			before := rec.count()
			step, err := nav.StepForward()
			Expect(err).NotTo(HaveOccurred())
			Expect(step).To(BeNil())
			Expect(nav.Index()).To(Equal(3))
			Expect(rec.count()).To(Equal(before))
		})

		It("steps back to zero and stays there", func() {
			Expect(nav.SeekLast()).To(Succeed())
			for i := 0; i < 4; i++ {
				Expect(nav.StepBack()).To(Succeed())
			}
			Expect(nav.Index()).To(Equal(0))
			Expect(nav.StepBack()).To(Succeed())
			Expect(nav.Index()).To(Equal(0))
			Expect(nav.State()).To(Equal(trace.Idle))
		})

		It("seeks to the first index", func() {
			Expect(nav.SeekLast()).To(Succeed())
			Expect(nav.SeekFirst()).To(Succeed())
			Expect(nav.Index()).To(Equal(0))
			Expect(rec.last().Maze.Evader).To(Equal(path[0]))
		})

		It("commits a forward step only after the animation", func() {
			step, err := nav.StepForward()
			Expect(err).NotTo(HaveOccurred())
			Expect(step.From).To(Equal(0))
			Expect(step.To).To(Equal(1))
			Expect(nav.Index()).To(Equal(0))
			Expect(nav.State()).To(Equal(trace.Transitioning))

			f := rec.last()
			Expect(f.Disabled).To(BeTrue())
			Expect(f.Playback).NotTo(BeNil())
			Expect(f.Playback.Mover).To(Equal(maze.Evader))
			Expect(f.Playback.DX).To(Equal(70))
			Expect(f.Playback.DY).To(Equal(0))
			Expect(step.Done()).NotTo(BeClosed())

			clock.releaseAll()
			Eventually(step.Done()).Should(BeClosed())
			Expect(nav.Index()).To(Equal(1))
			Expect(nav.State()).To(Equal(trace.Idle))

			f = rec.last()
			Expect(f.Index).To(Equal(1))
			Expect(f.Disabled).To(BeFalse())
			Expect(f.Playback).To(BeNil())
		})

		It("renders the transition frame before the settle frame", func() {
			stepForward()
			Expect(rec.count()).To(Equal(3))
			rec.mu.Lock()
			defer rec.mu.Unlock()
			Expect(rec.frames[1].Disabled).To(BeTrue())
			Expect(rec.frames[1].Index).To(Equal(0))
			Expect(rec.frames[2].Disabled).To(BeFalse())
			Expect(rec.frames[2].Index).To(Equal(1))
			Expect(rec.settles).To(Equal(2))
			Expect(rec.transitions).To(Equal(1))
		})

		It("ignores commands while transitioning", func() {
			step, err := nav.StepForward()
			Expect(err).NotTo(HaveOccurred())

			Expect(nav.SeekLast()).To(Succeed())
			Expect(nav.SeekFirst()).To(Succeed())
			Expect(nav.StepBack()).To(Succeed())
			again, err := nav.StepForward()
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(BeNil())
			Expect(nav.Index()).To(Equal(0))
			Expect(nav.Pending()).To(Equal(step))

			clock.releaseAll()
			Eventually(step.Done()).Should(BeClosed())
			Expect(nav.Index()).To(Equal(1))
			Expect(nav.Pending()).To(BeNil())
		})

		It("reaches the terminal state by stepping", func() {
			for i := 0; i < 3; i++ {
				stepForward()
			}
			Expect(nav.Index()).To(Equal(3))
			Expect(nav.State()).To(Equal(trace.Terminal))
			Expect(rec.last().Won).To(BeTrue())
		})

		It("flips presentation flags without moving", func() {
			nav.ToggleIndices()
			Expect(rec.last().Flags.ShowIndices).To(BeTrue())
			nav.ToggleDistance()
			Expect(rec.last().Flags).To(Equal(trace.Flags{ShowIndices: true, ShowDistance: true}))
			nav.ToggleIndices()
			Expect(rec.last().Flags.ShowIndices).To(BeFalse())
			Expect(nav.Index()).To(Equal(0))
			rec.mu.Lock()
			defer rec.mu.Unlock()
			Expect(rec.settles).To(Equal(1))
		})

		It("keeps the disabled frame when toggling during a transition", func() {
			step, err := nav.StepForward()
			Expect(err).NotTo(HaveOccurred())
			nav.ToggleDistance()
			f := rec.last()
			Expect(f.Disabled).To(BeTrue())
			Expect(f.Flags.ShowDistance).To(BeTrue())
			clock.releaseAll()
			Eventually(step.Done()).Should(BeClosed())
			Expect(rec.last().Flags.ShowDistance).To(BeTrue())
		})

		It("binds the accessor to the cursor", func() {
			theseus := func() instance.TupleSet {
				return acc.Sig(instance.Theseus).Join(acc.Relation(instance.Location))
			}
			Expect(theseus().Contains(mazetest.Square(maze.DefaultDims, path[0]))).To(BeTrue())
			Expect(nav.SeekLast()).To(Succeed())
			Expect(theseus().Contains(mazetest.Square(maze.DefaultDims, path[3]))).To(BeTrue())
		})

		It("plays to the end", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			done := make(chan error, 1)
			go func() { done <- nav.Play(ctx) }()
			Eventually(func() int {
				clock.releaseAll()
				return nav.Index()
			}).Should(Equal(3))
			Eventually(done).Should(Receive(BeNil()))
		})
	})

	Context("when the exit is never reached", func() {
		It("bounds the cursor by the last index", func() {
			var err error
			nav, err = build(walkTrace(path[0], path[1], path[2]))
			Expect(err).NotTo(HaveOccurred())
			Expect(nav.MaxIndex()).To(Equal(2))
			Expect(nav.SeekLast()).To(Succeed())
			Expect(rec.last().Won).To(BeFalse())
		})
	})

	Context("when the trace is empty", func() {
		It("fails to construct", func() {
			_, err := build(instance.Trace{})
			Expect(err).To(MatchError(instance.ErrEmptyTrace))
		})
	})

	Context("when an instance cannot be decoded", func() {
		var logs *bytes.Buffer

		BeforeEach(func() {
			tr := walkTrace(path[0], path[1], path[2])
			tr[1] = instance.NewBuilder().Sig("Square", "univ", "Square0").Build()
			logs = &bytes.Buffer{}
			acc = instance.NewAccessor(tr, logging.NewNop())
			dec := maze.NewDecoder(acc, maze.DefaultDims)
			animator := anim.New(0, 0, 0).WithClock(clock.after, nil)
			var err error
			nav, err = trace.New(dec, animator, acc,
				trace.WithRenderer(rec),
				trace.WithObserver(rec),
				trace.WithLogger(logging.New(slog.LevelDebug, logs)),
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("skips it in the win scan", func() {
			Expect(nav.MaxIndex()).To(Equal(2))
			Expect(logs.String()).To(ContainSubstring("win scan skipped instance"))
		})

		It("keeps the cursor and the displayed maze", func() {
			before := rec.count()
			step, err := nav.StepForward()
			Expect(step).To(BeNil())

			var de *maze.DecodeError
			Expect(errors.As(err, &de)).To(BeTrue())
			Expect(de.Index).To(Equal(1))
			Expect(nav.Index()).To(Equal(0))
			Expect(nav.State()).To(Equal(trace.Idle))
			Expect(rec.count()).To(Equal(before))
			Expect(rec.failures).To(ConsistOf(1))
			Expect(nav.Frame().Maze.Evader).To(Equal(path[0]))
		})

		It("still seeks past it", func() {
			Expect(nav.SeekLast()).To(Succeed())
			Expect(nav.Index()).To(Equal(2))
			Expect(nav.StepBack()).To(HaveOccurred())
			Expect(nav.Index()).To(Equal(2))
		})
	})

	Context("when the first instance cannot be decoded", func() {
		It("fails to construct", func() {
			tr := walkTrace(path[0], path[1])
			tr[0] = instance.NewBuilder().Build()
			_, err := build(tr)
			Expect(errors.Is(err, maze.ErrCardinality) || errors.Is(err, maze.ErrUnfilledCell)).To(BeTrue())
		})
	})
})
