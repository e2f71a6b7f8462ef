package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/san-kum/mazeviz/internal/anim"
	"github.com/san-kum/mazeviz/internal/config"
	"github.com/san-kum/mazeviz/internal/export"
	"github.com/san-kum/mazeviz/internal/instance"
	"github.com/san-kum/mazeviz/internal/logging"
	"github.com/san-kum/mazeviz/internal/maze"
	"github.com/san-kum/mazeviz/internal/metrics"
	"github.com/san-kum/mazeviz/internal/server"
	"github.com/san-kum/mazeviz/internal/source"
	"github.com/san-kum/mazeviz/internal/trace"
	"github.com/san-kum/mazeviz/internal/viz"
)

var (
	configFile string
	preset     string
	format     string
	logLevel   string
	height     int
	width      int
	// Export
	output       string
	index        int
	showIndices  bool
	showDistance bool
	svgOut       string
	// Serve
	addr string
	// Theme override for view
	theme string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mazeviz",
		Short:         "step through Theseus and Minotaur traces",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "trace format (xml, yaml); detected from the extension when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&height, "height", 0, "grid height")
	rootCmd.PersistentFlags().IntVar(&width, "width", 0, "grid width")

	viewCmd := &cobra.Command{
		Use:   "view [trace]",
		Short: "step through a trace in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}
	viewCmd.Flags().StringVar(&theme, "theme", "", fmt.Sprintf("color theme (%s)", strings.Join(viz.ThemeNames(), ", ")))
	viewCmd.Flags().BoolVar(&showIndices, "indices", false, "start with cell indices shown")
	viewCmd.Flags().BoolVar(&showDistance, "distance", false, "start with distances shown")

	inspectCmd := &cobra.Command{
		Use:   "inspect [trace]",
		Short: "print one line per instance",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [trace]",
		Short: "summarise the played-out trace",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}
	statsCmd.Flags().StringVar(&svgOut, "svg", "", "write the gap series as svg")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [trace]",
		Short: "render one instance as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportSVG,
	}
	exportSVGCmd.Flags().IntVar(&index, "index", 0, "instance index")
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	exportSVGCmd.Flags().BoolVar(&showIndices, "indices", false, "draw cell indices")
	exportSVGCmd.Flags().BoolVar(&showDistance, "distance", false, "draw distances to Theseus")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [trace]",
		Short: "export decoded instances up to the win",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [trace]",
		Short: "export positions and distances per instance",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")

	serveCmd := &cobra.Command{
		Use:   "serve [trace]",
		Short: "serve a trace session over http",
		Args:  cobra.ExactArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")

	playCmd := &cobra.Command{
		Use:   "play [trace]",
		Short: "play a trace to the end without a display",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlay,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(viewCmd, inspectCmd, statsCmd, exportSVGCmd, exportJSONCmd, exportCSVCmd, serveCmd, playCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loaded is a trace ready for decoding.
type loaded struct {
	cfg    *config.Config
	acc    *instance.Accessor
	dec    *maze.Decoder
	logger *slog.Logger
	closer io.Closer
}

func (l *loaded) Close() error { return l.closer.Close() }

func (l *loaded) animator() *anim.Animator {
	return anim.New(l.cfg.Animation.CellSize, l.cfg.Animation.Duration, l.cfg.Animation.Pulse)
}

func (l *loaded) flags() trace.Flags {
	return trace.Flags{ShowIndices: l.cfg.Display.ShowIndices, ShowDistance: l.cfg.Display.ShowDistance}
}

// load reads the config and the trace at path. logOut receives log records
// when no log file is configured; nil discards them.
func load(cmd *cobra.Command, path string, logOut io.Writer) (*loaded, error) {
	cfg, err := config.Load(configFile, preset)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("height") {
		cfg.Grid.Height = height
	}
	if cmd.Flags().Changed("width") {
		cfg.Grid.Width = width
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closer, err := logging.Open(cfg.Log.Level, cfg.Log.File, logOut)
	if err != nil {
		return nil, err
	}

	tr, err := source.Load(path, format)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("trace read", "path", path, "instances", len(tr))

	acc := instance.NewAccessor(tr, logger)
	dec := maze.NewDecoder(acc, maze.Dims{Height: cfg.Grid.Height, Width: cfg.Grid.Width})
	return &loaded{cfg: cfg, acc: acc, dec: dec, logger: logger, closer: closer}, nil
}

func runView(cmd *cobra.Command, args []string) error {
	l, err := load(cmd, args[0], nil)
	if err != nil {
		return err
	}
	defer l.Close()

	flags := l.flags()
	if cmd.Flags().Changed("indices") {
		flags.ShowIndices = showIndices
	}
	if cmd.Flags().Changed("distance") {
		flags.ShowDistance = showDistance
	}
	themeName := l.cfg.Display.Theme
	if theme != "" {
		themeName = theme
	}

	sink := viz.NewSink(64)
	nav, err := trace.New(l.dec, l.animator(), l.acc,
		trace.WithRenderer(sink),
		trace.WithLogger(l.logger),
		trace.WithFlags(flags),
	)
	if err != nil {
		return err
	}

	res := metrics.Collect(l.dec, nav.MaxIndex(), metrics.Defaults()...)
	return viz.Run(nav, nav.Frame(), sink, viz.Options{
		Title:    filepath.Base(args[0]),
		Theme:    themeName,
		CellSize: l.cfg.Animation.CellSize,
		Interval: l.cfg.FrameInterval(),
		Series:   res.Series,
	})
}

func runInspect(cmd *cobra.Command, args []string) error {
	l, err := load(cmd, args[0], os.Stderr)
	if err != nil {
		return err
	}
	defer l.Close()

	winIndex, won := trace.FindWin(l.dec, l.logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tTURN\tTHESEUS\tMINOTAUR\tEXIT\tGAP\tNOTE")
	for i := 0; i < l.dec.Len(); i++ {
		d, err := l.dec.Decode(i)
		if err != nil {
			fmt.Fprintf(w, "%d\t-\t-\t-\t-\t-\t%v\n", i, err)
			continue
		}
		note := ""
		switch {
		case won && i == winIndex:
			note = "win"
		case i > winIndex:
			note = "after end"
		case d.Caught():
			note = "caught"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			i, d.Turn, d.Evader, d.Pursuer, d.Exit, maze.Manhattan(d.Evader, d.Pursuer), note)
	}
	return w.Flush()
}

func runStats(cmd *cobra.Command, args []string) error {
	l, err := load(cmd, args[0], os.Stderr)
	if err != nil {
		return err
	}
	defer l.Close()

	winIndex, won := trace.FindWin(l.dec, l.logger)
	res := metrics.Collect(l.dec, winIndex, metrics.Defaults()...)

	fmt.Printf("instances: %d\n", l.dec.Len())
	fmt.Printf("last index: %d\n", winIndex)
	fmt.Printf("won: %v\n", won)
	fmt.Printf("caught: %v\n", res.Caught)
	fmt.Printf("steps: %d\n", res.Steps)
	if len(res.Skipped) > 0 {
		fmt.Printf("skipped: %v\n", res.Skipped)
	}
	fmt.Println()

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.2f\n", name, res.Metrics[name])
	}
	w.Flush()

	if len(res.Series.Gap) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(res.Series.Gap,
			asciigraph.Height(8),
			asciigraph.Caption("theseus to minotaur distance"),
		))
	}

	if svgOut != "" {
		svg := export.SeriesToSVG(res.Series.Gap, 600, 200, "#e1b31e")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgOut)
	}
	return nil
}

func runExportSVG(cmd *cobra.Command, args []string) error {
	l, err := load(cmd, args[0], os.Stderr)
	if err != nil {
		return err
	}
	defer l.Close()

	flags := l.flags()
	if cmd.Flags().Changed("indices") {
		flags.ShowIndices = showIndices
	}
	if cmd.Flags().Changed("distance") {
		flags.ShowDistance = showDistance
	}

	d, err := l.dec.Decode(index)
	if err != nil {
		return err
	}
	svg := export.MazeToSVG(d, l.cfg.Animation.CellSize, flags)
	if output == "" {
		_, err = io.WriteString(os.Stdout, svg)
		return err
	}
	return os.WriteFile(output, []byte(svg), 0644)
}

func runExportJSON(cmd *cobra.Command, args []string) error {
	l, err := load(cmd, args[0], os.Stderr)
	if err != nil {
		return err
	}
	defer l.Close()

	winIndex, won := trace.FindWin(l.dec, l.logger)
	data := export.BuildTraceData(l.dec, winIndex, won, winIndex)
	data.Metrics = metrics.Collect(l.dec, winIndex, metrics.Defaults()...).Metrics
	if output == "" {
		return export.WriteJSON(os.Stdout, data)
	}
	return export.ExportJSON(output, data)
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	l, err := load(cmd, args[0], os.Stderr)
	if err != nil {
		return err
	}
	defer l.Close()

	winIndex, _ := trace.FindWin(l.dec, l.logger)
	var skipped []int
	if output == "" {
		skipped, err = export.WriteCSV(os.Stdout, l.dec, winIndex)
	} else {
		skipped, err = export.ExportCSV(output, l.dec, winIndex)
	}
	if len(skipped) > 0 {
		l.logger.Warn("instances left out of csv", "indices", skipped)
	}
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	l, err := load(cmd, args[0], os.Stderr)
	if err != nil {
		return err
	}
	defer l.Close()

	listen := l.cfg.Serve.Addr
	if addr != "" {
		listen = addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	hub := server.NewHub()
	nav, err := trace.New(l.dec, l.animator(), l.acc,
		trace.WithRenderer(hub),
		trace.WithObserver(metrics.NewObserver(reg)),
		trace.WithLogger(l.logger),
		trace.WithFlags(l.flags()),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: listen,
		Handler: server.NewHandler(&server.Server{
			Decoder:  l.dec,
			Session:  nav,
			Hub:      hub,
			Gatherer: reg,
			CellSize: l.cfg.Animation.CellSize,
			Logger:   l.logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		l.logger.Info("listening", "addr", listen, "session", nav.Session())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	l.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runPlay(cmd *cobra.Command, args []string) error {
	l, err := load(cmd, args[0], os.Stderr)
	if err != nil {
		return err
	}
	defer l.Close()

	nav, err := trace.New(l.dec, l.animator(), l.acc,
		trace.WithObserver(newPrintObserver(os.Stdout)),
		trace.WithLogger(l.logger),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if err := nav.Play(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Printf("stopped at index %d\n", nav.Index())
			return nil
		}
		return err
	}

	f := nav.Frame()
	result := "Theseus never reached the exit"
	if f.Won {
		result = "Theseus escaped"
	}
	fmt.Printf("%s at index %d of %d in %v\n", result, f.Index, f.Len-1, time.Since(start).Round(time.Millisecond))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tDURATION\tPULSE\tFPS\tCELL")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dx%d\t%v\t%v\t%d\t%d\n",
			name, p.Grid.Height, p.Grid.Width, p.Animation.Duration, p.Animation.Pulse, p.Animation.FPS, p.Animation.CellSize)
	}
	return w.Flush()
}
