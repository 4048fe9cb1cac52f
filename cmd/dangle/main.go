package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dangle/internal/analysis"
	"github.com/san-kum/dangle/internal/config"
	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/export"
	"github.com/san-kum/dangle/internal/metrics"
	"github.com/san-kum/dangle/internal/rig"
	"github.com/san-kum/dangle/internal/sim"
	"github.com/san-kum/dangle/internal/storage"
	"github.com/san-kum/dangle/internal/viz"
	"github.com/spf13/cobra"
)

const defaultPreset = "rigid_pendulum/hair"

var (
	dataDir  string
	debug    bool
	logFile  *os.File
	dt       float64
	duration float64
	parallel bool
	preset   string
	settle   float64
	watch    bool
	trace    bool
	offset   string
	values   string
	params   []string
	dots     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dangle",
		Short:         "secondary motion for 2d rigs",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logFile = setupLogging(debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
				logFile = nil
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dangle", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug log to .dangle/logs")

	runCmd := &cobra.Command{
		Use:   "run [scene.yaml]",
		Short: "run a scene and store its outputs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame interval")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "tick drivers concurrently")
	runCmd.Flags().Float64Var(&settle, "settle", 0.01, "settle tolerance for metrics")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run outputs",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&trace, "trace", false, "also draw each output's path in its plane")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of run outputs",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run outputs to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and outputs to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export output paths to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringSliceVar(&params, "param", nil, "params to draw (default all)")
	exportSVGCmd.Flags().BoolVar(&dots, "dots", false, "render through the braille canvas")

	liveCmd := &cobra.Command{
		Use:   "live [scene.yaml]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload the scene file when it changes")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene.yaml]",
		Short: "run a scene once per value of one offset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&offset, "offset", "angle_damping", "offset to vary")
	sweepCmd.Flags().StringVar(&values, "values", "0.5,1,2", "comma separated offset values")
	sweepCmd.Flags().Float64Var(&settle, "settle", 0.01, "settle tolerance for metrics")

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [scene.yaml]",
		Short: "write a starter scene file",
		Args:  cobra.ExactArgs(1),
		RunE:  initScene,
	}
	sceneFlags(initCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, liveCmd, sweepCmd, presetsCmd, initCmd)
	return rootCmd
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset scene (system/name)")
}

// loadScene resolves a scene from a file argument, --preset, or defaultPreset.
func loadScene(args []string) (*config.Scene, error) {
	switch {
	case len(args) > 0 && preset != "":
		return nil, fmt.Errorf("scene file and --preset are mutually exclusive")
	case len(args) > 0:
		return config.Load(args[0])
	case preset != "":
		return config.LookupPreset(preset)
	default:
		return config.LookupPreset(defaultPreset)
	}
}

func runScene(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	scene, err := loadScene(args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dt") {
		scene.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		scene.Duration = duration
	}
	if cmd.Flags().Changed("parallel") {
		scene.Parallel = parallel
	}
	if err := scene.Validate(); err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	pup, pass, err := scene.Build()
	if err != nil {
		return err
	}
	s := sim.New(pup, pass)
	for _, m := range metrics.ForParams(s.Params(), settle) {
		s.AddMetric(m)
	}

	fmt.Fprintf(out, "running %s...\n", scene.Name)
	log.Printf("run %s: dt=%g duration=%g drivers=%d", scene.Name, scene.Dt, scene.Duration, len(scene.Drivers))
	start := time.Now()

	result, err := s.Run(cmd.Context(), sim.Config{Dt: scene.Dt, Duration: scene.Duration})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(scene, result)
	if err != nil {
		return err
	}
	log.Printf("run %s saved as %s in %v", scene.Name, runID, elapsed)

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "frames: %d\n", len(result.Times))
	if result.Skipped > 0 || result.Held > 0 {
		fmt.Fprintf(out, "skipped: %d  held: %d\n", result.Skipped, result.Held)
	}
	printMetrics(cmd, result.Metrics)
	return nil
}

func printMetrics(cmd *cobra.Command, m map[string]float64) {
	out := cmd.OutOrStdout()
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tFRAMES\tPARAMS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Frames,
			strings.Join(run.Params(), ","),
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	result, err := st.LoadOutputs(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(result.Times) == 0 {
		return nil, nil, fmt.Errorf("run %s: no data", runID)
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s\n", meta.Scene)
	fmt.Fprintf(out, "frames: %d\n\n", len(result.Times))

	for _, d := range meta.Drivers {
		xs, ys, ok := result.Series(rig.ParamID(d.Param))
		if !ok {
			continue
		}
		graph := asciigraph.PlotMany([][]float64{xs, ys},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption(fmt.Sprintf("%s (%s, %s): x red, y blue", d.Param, d.System, d.MapMode)),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)

		if trace {
			fmt.Fprintln(out, analysis.TraceToASCII(analysis.NewTrace(xs, ys), 60, 20))
			fmt.Fprintln(out)
		}
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "frequency analysis: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s\n\n", meta.Scene)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tAXIS\tFREQ\tPERIOD")
	for _, d := range meta.Drivers {
		xs, ys, ok := result.Series(rig.ParamID(d.Param))
		if !ok {
			continue
		}
		for _, axis := range []struct {
			name string
			data []float64
		}{{"x", xs}, {"y", ys}} {
			freq := analysis.DominantFrequency(axis.data, meta.Dt)
			period := "-"
			if freq > 0 {
				period = fmt.Sprintf("%.3fs", 1/freq)
			}
			fmt.Fprintf(w, "%s\t%s\t%.3f hz\t%s\n", d.Param, axis.name, freq, period)
		}
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(cmd.OutOrStdout(), result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	selected := params
	if len(selected) == 0 {
		selected = meta.Params()
	}
	traces := make([]*analysis.Trace, 0, len(selected))
	for _, p := range selected {
		xs, ys, ok := result.Series(rig.ParamID(p))
		if !ok {
			return fmt.Errorf("run %s: %w %q", meta.ID, dynamo.ErrUnknownParam, p)
		}
		traces = append(traces, analysis.NewTrace(xs, ys))
	}
	if dots {
		return export.WriteCanvas(cmd.OutOrStdout(), rasterize(traces, 80, 30), 4)
	}
	return export.WriteTraces(cmd.OutOrStdout(), traces, 600, 400)
}

// rasterize draws traces onto a w x h cell canvas fitted to their bounds.
func rasterize(traces []*analysis.Trace, w, h int) *viz.Canvas {
	c := viz.NewCanvas(w, h)
	var view viz.Viewport
	first := true
	for _, t := range traces {
		for _, p := range t.Points {
			v := dynamo.Vec2{p.X, p.Y}
			if first && dynamo.Finite(v) {
				view = viz.Viewport{Min: v, Max: v}
				first = false
			}
			view.Grow(v, 1)
		}
	}

	dw, dh := c.Dots()
	for _, t := range traces {
		for i := 1; i < len(t.Points); i++ {
			a, b := t.Points[i-1], t.Points[i]
			x0, y0 := view.Project(dynamo.Vec2{a.X, a.Y}, dw, dh)
			x1, y1 := view.Project(dynamo.Vec2{b.X, b.Y}, dw, dh)
			c.DrawLine(x0, y0, x1, y1)
		}
	}
	return c
}

func runLive(cmd *cobra.Command, args []string) error {
	load := func() (*config.Scene, error) { return loadScene(args) }

	var watcher *viz.Watcher
	if watch {
		if len(args) == 0 {
			return fmt.Errorf("--watch needs a scene file")
		}
		w, err := viz.NewWatcher(args[0])
		if err != nil {
			return err
		}
		defer w.Close()
		watcher = w
	}

	return viz.Run(load, watcher)
}

func sweepScene(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	scene, err := loadScene(args)
	if err != nil {
		return err
	}
	vals, err := parseValues(values)
	if err != nil {
		return err
	}

	sw := sim.NewSweep(scene.Build, offset, vals).WithMetrics(func() []sim.Metric {
		ids := make([]rig.ParamID, 0, len(scene.Drivers))
		for _, p := range scene.Params() {
			ids = append(ids, rig.ParamID(p))
		}
		return metrics.ForParams(ids, settle)
	})

	results, err := sw.Run(cmd.Context(), sim.Config{Dt: scene.Dt, Duration: scene.Duration})
	if err != nil {
		return err
	}

	names := make([]string, 0)
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(offset), strings.ToUpper(strings.Join(names, "\t")))
	for i, r := range results {
		row := make([]string, len(names))
		for j, name := range names {
			row[j] = strconv.FormatFloat(r.Metrics[name], 'f', 4, 64)
		}
		fmt.Fprintf(w, "%g\t%s\n", vals[i], strings.Join(row, "\t"))
	}
	return w.Flush()
}

func parseValues(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad sweep value %q: %w", f, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sweep values")
	}
	return out, nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	systems := config.Systems()
	if len(args) > 0 {
		systems = []string{args[0]}
	}
	for _, system := range systems {
		presets := config.ListPresets(system)
		if len(presets) == 0 {
			fmt.Fprintf(out, "no presets for system: %s\n", system)
			continue
		}
		fmt.Fprintf(out, "presets for %s:\n", system)
		for _, p := range presets {
			fmt.Fprintf(out, "  %s/%s\n", system, p)
		}
	}
	return nil
}

func initScene(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	ref := preset
	if ref == "" {
		ref = defaultPreset
	}
	scene, err := config.LookupPreset(ref)
	if err != nil {
		return err
	}
	if err := config.Save(path, scene); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
