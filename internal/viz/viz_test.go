package viz

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mazeviz/internal/anim"
	"github.com/san-kum/mazeviz/internal/instance"
	"github.com/san-kum/mazeviz/internal/logging"
	"github.com/san-kum/mazeviz/internal/maze"
	"github.com/san-kum/mazeviz/internal/mazetest"
	"github.com/san-kum/mazeviz/internal/metrics"
	"github.com/san-kum/mazeviz/internal/trace"
)

type fakeCommands struct {
	calls []string
	err   error
}

func (f *fakeCommands) SeekFirst() error { f.calls = append(f.calls, "first"); return f.err }
func (f *fakeCommands) StepBack() error  { f.calls = append(f.calls, "back"); return f.err }
func (f *fakeCommands) SeekLast() error  { f.calls = append(f.calls, "last"); return f.err }
func (f *fakeCommands) ToggleIndices()   { f.calls = append(f.calls, "indices") }
func (f *fakeCommands) ToggleDistance()  { f.calls = append(f.calls, "distance") }
func (f *fakeCommands) StepForward() (*trace.Step, error) {
	f.calls = append(f.calls, "forward")
	return nil, f.err
}

func frameFor(t *testing.T, s mazetest.State) trace.Frame {
	t.Helper()
	dec := maze.NewDecoder(instance.NewAccessor(mazetest.Trace(s), logging.NewNop()), maze.DefaultDims)
	d, err := dec.Decode(0)
	if err != nil {
		t.Fatal(err)
	}
	return trace.Frame{Maze: d, Len: 3, MaxIndex: 2, Won: d.Won()}
}

func sampleState() mazetest.State {
	return mazetest.State{
		Theseus:  maze.Coord{Row: 1, Col: 1},
		Minotaur: maze.Coord{Row: 2, Col: 2},
		Exit:     maze.Coord{Row: 0, Col: 3},
		Links:    [][2]maze.Coord{{{Row: 1, Col: 1}, {Row: 1, Col: 2}}},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDrawMaze(t *testing.T) {
	f := frameFor(t, sampleState())
	c := CanvasFor(f.Maze.Dims)
	DrawMaze(c, f, 70, time.Now())
	out := c.String()

	if strings.Count(out, "T") != 1 || strings.Count(out, "M") != 1 || strings.Count(out, "E") != 1 {
		t.Errorf("expected one marker each:\n%s", out)
	}
	x, y := center(maze.Coord{Row: 1, Col: 1})
	if c.Grid[y][x] != 'T' {
		t.Errorf("theseus not drawn at its cell center")
	}
	// the east side of 1,1 is open
	if c.Grid[y][2*cellCols] != ' ' {
		t.Errorf("expected an opening between 1,1 and 1,2, got %q", c.Grid[y][2*cellCols])
	}
	if c.Grid[y][cellCols] != '│' {
		t.Errorf("expected a wall west of 1,1, got %q", c.Grid[y][cellCols])
	}
}

func TestDrawMazeOverlays(t *testing.T) {
	f := frameFor(t, sampleState())
	f.Flags = trace.Flags{ShowIndices: true, ShowDistance: true}
	c := CanvasFor(f.Maze.Dims)
	DrawMaze(c, f, 70, time.Now())

	if got := string(c.Grid[1][1:4]); got != "0,0" {
		t.Errorf("index label = %q", got)
	}
	if got := c.Grid[2][1]; got != '2' {
		t.Errorf("distance label = %q, want 2", got)
	}
}

func TestDrawMazeMidTransition(t *testing.T) {
	f := frameFor(t, sampleState())
	start := time.Unix(0, 0)
	tr := anim.Transition{
		Mover:    maze.Evader,
		From:     maze.Coord{Row: 1, Col: 1},
		To:       maze.Coord{Row: 1, Col: 2},
		DX:       70,
		Duration: time.Second,
	}
	f.Playback = &anim.Playback{Transition: tr, Started: start}
	f.Disabled = true

	c := CanvasFor(f.Maze.Dims)
	DrawMaze(c, f, 70, start.Add(500*time.Millisecond))
	x, y := center(tr.From)
	if c.Grid[y][x+cellCols/2] != 'T' {
		t.Errorf("theseus should be half way:\n%s", c.String())
	}
}

func TestDrawMazeDeniedPulse(t *testing.T) {
	f := frameFor(t, sampleState())
	start := time.Unix(0, 0)
	tr := anim.Transition{Mover: maze.Pursuer, From: maze.Coord{Row: 2, Col: 2}, To: maze.Coord{Row: 2, Col: 2}, Denied: true, Duration: time.Second, Pulse: 300 * time.Millisecond}
	f.Playback = &anim.Playback{Transition: tr, Started: start}

	c := CanvasFor(f.Maze.Dims)
	DrawMaze(c, f, 70, start.Add(100*time.Millisecond))
	if !strings.Contains(c.String(), "✗") {
		t.Error("expected the denied marker during the pulse")
	}
	DrawMaze(c, f, 70, start.Add(400*time.Millisecond))
	if strings.Contains(c.String(), "✗") {
		t.Error("denied marker should be gone after the pulse")
	}
}

func TestModelKeys(t *testing.T) {
	cmds := &fakeCommands{}
	m := NewModel(cmds, frameFor(t, sampleState()), Options{})

	for _, k := range []string{"g", "left", "right", "G", "i", "d"} {
		_, cmd := m.Update(keyMsg(k))
		if cmd == nil {
			t.Fatalf("key %s produced no command", k)
		}
		cmd()
	}
	want := []string{"first", "back", "forward", "last", "indices", "distance"}
	if strings.Join(cmds.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", cmds.calls, want)
	}
}

func TestModelIgnoresNavigationWhileDisabled(t *testing.T) {
	cmds := &fakeCommands{}
	f := frameFor(t, sampleState())
	f.Disabled = true
	m := NewModel(cmds, f, Options{})

	for _, k := range []string{"g", "left", "right", "G"} {
		if _, cmd := m.Update(keyMsg(k)); cmd != nil {
			t.Errorf("key %s should be ignored during a transition", k)
		}
	}
	if _, cmd := m.Update(keyMsg("i")); cmd == nil {
		t.Error("toggles stay available during a transition")
	}
}

func TestModelView(t *testing.T) {
	f := frameFor(t, sampleState())
	m := NewModel(&fakeCommands{}, f, Options{Title: "x", Series: metrics.Series{Gap: []float64{3, 2, 1}}})
	view := m.View()
	if !strings.Contains(view, "0 / 2") {
		t.Errorf("unexpected view:\n%s", view)
	}
	if strings.Contains(view, "Congratulations") {
		t.Error("no banner before the win")
	}

	won := sampleState()
	won.Theseus = won.Exit
	next, _ := m.Update(FrameMsg(frameFor(t, won)))
	if !strings.Contains(next.View(), "Congratulations") {
		t.Error("expected the win banner")
	}
}

func TestModelTurnIndicator(t *testing.T) {
	tests := []struct {
		turn      maze.Player
		want, not string
	}{
		{maze.Evader, "THESEUS", "MINOTAUR"},
		{maze.Pursuer, "MINOTAUR", "THESEUS"},
	}
	for _, tt := range tests {
		f := frameFor(t, sampleState())
		f.Maze.Turn = tt.turn
		m := NewModel(&fakeCommands{}, f, Options{Title: "x"})

		line := m.turnView()
		if !strings.HasPrefix(line, "Current turn: ") {
			t.Errorf("turn line = %q", line)
		}
		if !strings.Contains(line, tt.want) || strings.Contains(line, tt.not) {
			t.Errorf("%v: turn line = %q, want %s", tt.turn, line, tt.want)
		}
		if !strings.Contains(m.View(), line) {
			t.Errorf("%v: view is missing the turn line", tt.turn)
		}
	}
}

func TestModelGapPlotSkipsMissingIndices(t *testing.T) {
	f := frameFor(t, sampleState())
	f.Index = 2
	// index 1 failed to decode
	series := metrics.Series{Gap: []float64{3, 2, 1}, Index: []int{0, 2, 3}}
	m := NewModel(&fakeCommands{}, f, Options{Series: series})

	want := asciigraph.Plot([]float64{3, 2}, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Minotaur gap"))
	if got := m.gapPlot(); got != want {
		t.Errorf("plot =\n%s\nwant\n%s", got, want)
	}

	f.Index = 1
	m = NewModel(&fakeCommands{}, f, Options{Series: series})
	if got := m.gapPlot(); got != "" {
		t.Errorf("one point should not plot, got\n%s", got)
	}
}

func TestNewModelDefaultInterval(t *testing.T) {
	m := NewModel(&fakeCommands{}, frameFor(t, sampleState()), Options{})
	if m.opts.Interval != time.Second/30 {
		t.Errorf("interval = %v", m.opts.Interval)
	}
	m = NewModel(&fakeCommands{}, frameFor(t, sampleState()), Options{Interval: 50 * time.Millisecond})
	if m.opts.Interval != 50*time.Millisecond {
		t.Errorf("interval = %v", m.opts.Interval)
	}
}

func TestModelRecordsErrors(t *testing.T) {
	m := NewModel(&fakeCommands{}, frameFor(t, sampleState()), Options{})
	next, _ := m.Update(errMsg{err: errors.New("decode instance 2")})
	if !strings.Contains(next.View(), "decode instance 2") {
		t.Error("expected the error in the view")
	}
}

type recordingProgram struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (p *recordingProgram) Send(msg tea.Msg) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
}

func (p *recordingProgram) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

func TestSinkPreservesOrder(t *testing.T) {
	s := NewSink(4)
	p := &recordingProgram{}
	for i := 0; i < 3; i++ {
		s.Render(trace.Frame{Index: i})
	}
	go s.Forward(p)

	deadline := time.Now().Add(time.Second)
	for p.len() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	s.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.msgs) != 3 {
		t.Fatalf("forwarded %d frames, want 3", len(p.msgs))
	}
	for i, msg := range p.msgs {
		if trace.Frame(msg.(FrameMsg)).Index != i {
			t.Errorf("frame %d out of order", i)
		}
	}
}

func TestSinkRenderAfterClose(t *testing.T) {
	s := NewSink(0)
	s.Close()
	done := make(chan struct{})
	go func() {
		s.Render(trace.Frame{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Render blocked on a closed sink")
	}
}

func TestNextTheme(t *testing.T) {
	seen := map[string]bool{}
	th := GetTheme("cyberpunk")
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != "cyberpunk" {
		t.Errorf("themes did not cycle: %v", seen)
	}
	if names := ThemeNames(); len(names) != len(Themes) || names[0] != "cyberpunk" {
		t.Errorf("theme names = %v", names)
	}
	if GetTheme("nope").Name != "cyberpunk" {
		t.Error("unknown theme should fall back to cyberpunk")
	}
}
