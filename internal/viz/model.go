package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mazeviz/internal/maze"
	"github.com/san-kum/mazeviz/internal/metrics"
	"github.com/san-kum/mazeviz/internal/trace"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	disabledKey = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	enabledKey  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Commands is the navigator surface the view drives.
type Commands interface {
	SeekFirst() error
	StepBack() error
	StepForward() (*trace.Step, error)
	SeekLast() error
	ToggleIndices()
	ToggleDistance()
}

type TickMsg time.Time

type errMsg struct{ err error }

// Options configure a Model.
type Options struct {
	Title    string
	Theme    string
	CellSize int
	// Interval is the redraw period.
	Interval time.Duration
	// Series is plotted up to the current index.
	Series metrics.Series
}

// Model is the Bubble Tea model of the maze view. It only reads frames; every
// command is run outside the update loop.
type Model struct {
	cmds     Commands
	frame    trace.Frame
	opts     Options
	theme    Theme
	canvas   *Canvas
	keys     keyMap
	help     help.Model
	showHelp bool
	lastErr  error
	now      func() time.Time
}

func NewModel(cmds Commands, first trace.Frame, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 30
	}
	return Model{
		cmds:   cmds,
		frame:  first,
		opts:   opts,
		theme:  GetTheme(opts.Theme),
		canvas: CanvasFor(first.Maze.Dims),
		keys:   newKeyMap(),
		help:   help.New(),
		now:    time.Now,
	}
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input and incoming frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case FrameMsg:
		m.frame = trace.Frame(msg)
		if c := CanvasFor(m.frame.Maze.Dims); c.Width != m.canvas.Width || c.Height != m.canvas.Height {
			m.canvas = c
		}
	case errMsg:
		m.lastErr = msg.err
	case TickMsg:
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.theme = NextTheme(m.theme)
		return m, nil
	case key.Matches(msg, m.keys.Indices):
		return m, m.run(func() error { m.cmds.ToggleIndices(); return nil })
	case key.Matches(msg, m.keys.Distance):
		return m, m.run(func() error { m.cmds.ToggleDistance(); return nil })
	}

	for _, b := range m.keys.navigation() {
		if key.Matches(msg, b) && m.frame.Disabled {
			return m, nil
		}
	}
	switch {
	case key.Matches(msg, m.keys.First):
		return m, m.run(m.cmds.SeekFirst)
	case key.Matches(msg, m.keys.Back):
		return m, m.run(m.cmds.StepBack)
	case key.Matches(msg, m.keys.Forward):
		return m, m.run(func() error {
			_, err := m.cmds.StepForward()
			return err
		})
	case key.Matches(msg, m.keys.Last):
		return m, m.run(m.cmds.SeekLast)
	}
	return m, nil
}

// run executes fn off the update loop; the navigator answers with frames.
func (m Model) run(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: fn()}
	}
}

func (m Model) View() string {
	DrawMaze(m.canvas, m.frame, m.opts.CellSize, m.now())
	mazeView := canvasStyle.Render(m.canvas.Render(m.theme.inks()))

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "THESEUS & THE MINOTAUR"
	}
	s.WriteString(HeaderStyle.Render(GradientText(title, m.theme.Primary, m.theme.Secondary)) + "\n\n")
	s.WriteString(m.turnView() + "\n\n")

	s.WriteString(MetricLabel.Render("Instance") + MetricValue.Render(fmt.Sprintf("%d / %d", m.frame.Index, m.frame.MaxIndex)) + "\n")
	s.WriteString(MetricLabel.Render("Trace") + MetricValue.Render(fmt.Sprintf("%d instances", m.frame.Len)) + "\n")
	progress := 1.0
	if m.frame.MaxIndex > 0 {
		progress = float64(m.frame.Index) / float64(m.frame.MaxIndex)
	}
	s.WriteString(MetricLabel.Render("Progress") + ProgressBar(progress, 20) + "\n")
	gap := maze.Manhattan(m.frame.Maze.Evader, m.frame.Maze.Pursuer)
	s.WriteString(MetricLabel.Render("Gap") + MetricValue.Render(fmt.Sprintf("%d", gap)) + "\n")
	s.WriteString(MetricLabel.Render("To exit") + MetricValue.Render(fmt.Sprintf("%d", maze.Manhattan(m.frame.Maze.Evader, m.frame.Maze.Exit))) + "\n\n")

	s.WriteString(m.controlsView() + "\n")

	if plot := m.gapPlot(); plot != "" {
		s.WriteString(graphStyle.Render(plot) + "\n")
	}
	if m.lastErr != nil {
		s.WriteString(errorStyle.Render("skipped: "+m.lastErr.Error()) + "\n")
	}

	s.WriteString("\n" + Separator(38) + "\n")
	if m.showHelp {
		s.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		s.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, mazeView, statsView)
	if m.frame.Won {
		banner := BannerStyle.BorderForeground(m.theme.Accent).Foreground(m.theme.Success).Render("Congratulations! Theseus escaped.")
		return lipgloss.JoinVertical(lipgloss.Center, mainView, banner)
	}
	return mainView
}

func (m Model) turnView() string {
	turn := m.frame.Maze.Turn
	ink := m.theme.Secondary
	if turn == maze.Pursuer {
		ink = m.theme.Error
	}
	who := lipgloss.NewStyle().Foreground(ink).Bold(true).Render(strings.ToUpper(turn.String()))
	status := StatusPaused.Render("IDLE")
	switch m.frame.State {
	case trace.Transitioning:
		status = StatusRunning.Render("MOVING")
	case trace.Terminal:
		status = StatusPaused.Render("END")
	}
	return "Current turn: " + who + "  " + status
}

func (m Model) controlsView() string {
	btn := func(label string, live bool) string {
		if live {
			return enabledKey.Render("[" + label + "]")
		}
		return disabledKey.Render("[" + label + "]")
	}
	back, fwd := m.frame.CanStepBack(), m.frame.CanStepForward()
	return strings.Join([]string{btn("<<", back), btn("<", back), btn(">", fwd), btn(">>", fwd)}, " ")
}

// gapPlot draws the gap series up to the current index. Entries are matched
// by their recorded trace index so skipped instances do not shift the plot.
func (m Model) gapPlot() string {
	s := m.opts.Series
	n := m.frame.Index + 1
	if len(s.Index) == len(s.Gap) {
		n = sort.SearchInts(s.Index, m.frame.Index+1)
	}
	if n > len(s.Gap) {
		n = len(s.Gap)
	}
	if n < 2 {
		return ""
	}
	return asciigraph.Plot(s.Gap[:n],
		asciigraph.Height(4),
		asciigraph.Width(30),
		asciigraph.Caption("Minotaur gap"),
	)
}
