package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bugsim/internal/analysis"
	"github.com/san-kum/bugsim/internal/automation"
	"github.com/san-kum/bugsim/internal/config"
	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/export"
	"github.com/san-kum/bugsim/internal/gui"
	"github.com/san-kum/bugsim/internal/integrators"
	"github.com/san-kum/bugsim/internal/lifecycle"
	"github.com/san-kum/bugsim/internal/logging"
	"github.com/san-kum/bugsim/internal/metrics"
	"github.com/san-kum/bugsim/internal/optim"
	"github.com/san-kum/bugsim/internal/sfx"
	"github.com/san-kum/bugsim/internal/sim"
	"github.com/san-kum/bugsim/internal/storage"
	"github.com/san-kum/bugsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	ticks      int
	count      int
	integrator string
	frameRate  int
	sound      bool
	logLevel   string
	logFormat  string
	entityID   uint64
	outFile    string
	frameTick  uint64
	metricName string
	maximize   bool
	restGrid   []float64
	gravGrid   []float64
	numRuns    int
	asDots     bool
	savePath   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "bugsim",
		Short:        "bouncing bug physics playground",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".bugsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.IntVar(&count, "count", config.DefaultCount, "number of bugs to spawn")
	pf.StringVar(&integrator, "integrator", "euler", "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	pf.StringVar(&logLevel, "log-level", "info", "log level")
	pf.StringVar(&logFormat, "log-format", "console", "log format (console or json)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the world in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().BoolVar(&sound, "sound", false, "play explosion sounds")
	rootCmd.Flags().AddFlagSet(liveCmd.Flags())

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and store the frames",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Uint64Var(&entityID, "id", 0, "plot the height of one bug")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce period analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Uint64Var(&entityID, "id", 0, "analyze one bug instead of the mean")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the world in a desktop window",
		RunE:  runGUI,
	}
	guiCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render one frame, or one bug's track, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Uint64Var(&frameTick, "tick", 0, "frame to render")
	exportSVGCmd.Flags().Uint64Var(&entityID, "id", 0, "trace one bug instead of a single frame")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().BoolVar(&asDots, "canvas", false, "render the frame as terminal braille dots")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted scenario headless and store it",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search restitution and gravity against a metric",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks per run")
	sweepCmd.Flags().Float64SliceVar(&restGrid, "restitution", []float64{0.5, 0.7, 0.9, 1.0}, "restitution values")
	sweepCmd.Flags().Float64SliceVar(&gravGrid, "gravity", []float64{0.05, 0.1, 0.2}, "gravity acceleration values")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy", "metric to rank by")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "rank by highest value instead of lowest")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same world",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same setup under consecutive seeds in parallel",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks per run")
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets, or save the selected configuration",
		RunE:  runPresets,
	}
	presetsCmd.Flags().StringVar(&savePath, "save", "", "write the effective configuration (--preset, --config, flags) to a yaml or toml file")

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, scenarioCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportSVGCmd, compareCmd, sweepCmd, ensembleCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers preset, config file and explicitly set flags, in that
// order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if flags.Changed("count") {
		cfg.Spawn.Count = count
	}
	if flags.Changed("integrator") {
		cfg.Physics.Integrator = integrator
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("sound") {
		cfg.Sound = sound
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newScheduler(cfg *config.Config, log *zap.Logger) (*sim.Scheduler, error) {
	w, err := dynamo.NewWorld(cfg.Bounds(), cfg.Params())
	if err != nil {
		return nil, err
	}

	lc := lifecycle.NewSeeded(cfg.Seed, cfg.Template())
	if _, err := lc.Populate(w, cfg.Spawn.Count); err != nil {
		return nil, err
	}

	integ, err := integrators.ByName(cfg.Physics.Integrator)
	if err != nil {
		return nil, err
	}

	sched := sim.New(w, lc, sim.WithLogger(log), sim.WithIntegrator(integ))
	for _, m := range metrics.Defaults() {
		sched.AddMetric(m)
	}
	return sched, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the alt screen owns stdout, so the live view only logs warnings
	if !cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = "warn"
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	sched, err := newScheduler(cfg, log)
	if err != nil {
		return err
	}
	defer sched.Close()

	if cfg.Sound {
		player := sfx.NewPlayer(sfx.DefaultVolume, cfg.Seed)
		if err := player.Start(); err != nil {
			log.Warn("sound disabled", zap.Error(err))
		} else {
			sched.OnRemoval(player.OnRemoval)
		}
	}

	log.Info("starting live view",
		zap.Int64("seed", cfg.Seed),
		zap.Int("bugs", sched.World().Len()),
		zap.String("integrator", cfg.Physics.Integrator),
	)
	return viz.Run(sched, cfg.Impulse, cfg.FPS, "bugsim")
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	sched, err := newScheduler(cfg, log)
	if err != nil {
		return err
	}
	defer sched.Close()

	log.Info("opening window",
		zap.Int64("seed", cfg.Seed),
		zap.Int("bugs", sched.World().Len()),
		zap.Float64("width", cfg.Viewport.Width),
		zap.Float64("height", cfg.Viewport.Height),
	)
	gui.Run(sched, cfg.Impulse, cfg.FPS)
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sched, err := newScheduler(cfg, log)
	if err != nil {
		return err
	}
	defer sched.Close()

	energy := make([]float64, 0, min(cfg.Ticks, 4096))
	sched.AddObserver(sim.ObserverFunc(func(sim.Frame) {
		energy = append(energy, metrics.TotalKinetic(sched.World()))
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("running simulation",
		zap.Int64("seed", cfg.Seed),
		zap.Int("bugs", sched.World().Len()),
		zap.Int("ticks", cfg.Ticks),
	)
	start := time.Now()

	result, err := sched.Run(ctx, cfg.Ticks)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		log.Warn("run interrupted", zap.Error(err), zap.Int("steps", result.StepsTaken))
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Preset:      preset,
		Seed:        cfg.Seed,
		Entities:    sched.World().Len(),
		Width:       cfg.Viewport.Width,
		Height:      cfg.Viewport.Height,
		Radius:      cfg.Spawn.Radius,
		Gravity:     sched.World().Params().Gravity,
		Restitution: cfg.Physics.Restitution,
		Integrator:  cfg.Physics.Integrator,
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("collisions: %d resolved, %d separating, %d degenerate\n",
		result.Stats.Resolved, result.Stats.Separating, result.Stats.Degenerate)
	fmt.Printf("wall hits: %d\n", result.WallHits)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	if len(energy) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy"),
		))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTICKS\tBUGS\tSEED\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Entities,
			run.Seed,
			run.Integrator,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bugs: %d\n", meta.Entities)
	fmt.Printf("frames: %d\n\n", len(frames))

	heights := analysis.MeanHeights(frames, meta.Height)
	caption := "mean height"
	if entityID != 0 {
		heights = analysis.Track(frames, dynamo.EntityID(entityID), meta.Height)
		caption = fmt.Sprintf("height of bug #%d", entityID)
	}

	if len(heights) == 0 {
		return fmt.Errorf("bug #%d not found in run %s", entityID, runID)
	}

	fmt.Println(asciigraph.Plot(heights,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	series := analysis.MeanHeights(frames, meta.Height)
	subject := "all bugs"
	if entityID != 0 {
		series = analysis.Track(frames, dynamo.EntityID(entityID), meta.Height)
		subject = fmt.Sprintf("bug #%d", entityID)
	}
	if len(series) < 4 {
		return fmt.Errorf("not enough data")
	}

	fmt.Printf("bounce analysis: %s\n", meta.ID)
	fmt.Printf("subject: %s\n", subject)
	fmt.Printf("samples: %d\n\n", len(series))

	period, ok := analysis.DominantPeriod(series)
	if !ok {
		fmt.Println("no dominant oscillation")
		return nil
	}
	fmt.Printf("dominant period: %.1f ticks\n", period)
	if meta.Gravity {
		fmt.Printf("at %d fps: %.2fs per bounce\n", config.DefaultFPS, period/config.DefaultFPS)
	}

	spectrum := analysis.Spectrum(series)
	if len(spectrum) > 64 {
		spectrum = spectrum[:64]
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(spectrum,
		asciigraph.Height(8),
		asciigraph.Width(64),
		asciigraph.Caption("spectrum (cycles per run)"),
	))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return storage.ExportJSON(out, *meta, frames)
}

const (
	dotCols  = 120
	dotRows  = 40
	dotScale = 4.0
)

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	bounds := dynamo.Bounds{Width: meta.Width, Height: meta.Height}
	var svg string
	if entityID != 0 {
		svg = export.TrackToSVG(frames, dynamo.EntityID(entityID), bounds, meta.Radius, "#00ff88")
		if svg == "" {
			return fmt.Errorf("bug #%d has no track in run %s", entityID, runID)
		}
	} else {
		found := false
		for _, f := range frames {
			if f.Tick == frameTick {
				found = true
				if asDots {
					svg = export.FrameToDots(f, bounds, meta.Radius, dotCols, dotRows, dotScale)
				} else {
					svg = export.FrameToSVG(f, bounds, meta.Radius)
				}
				break
			}
		}
		if !found {
			return fmt.Errorf("tick %d not in run %s", frameTick, runID)
		}
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func runPresets(cmd *cobra.Command, args []string) error {
	if savePath != "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := config.Save(savePath, cfg); err != nil {
			return err
		}
		fmt.Printf("configuration saved to %s\n", savePath)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBUGS\tGRAVITY\tRESTITUTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		g := "off"
		if p.Physics.Gravity {
			g = fmt.Sprintf("%.3f", p.Physics.GravityAccel)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.2f\n", name, p.Spawn.Count, g, p.Physics.Restitution)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Preset != "" && !cmd.Flags().Changed("preset") {
		preset = sc.Preset
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sched, err := newScheduler(cfg, log)
	if err != nil {
		return err
	}
	defer sched.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("running scenario",
		zap.String("name", sc.Name),
		zap.Int("events", len(sc.Events)),
		zap.Int("ticks", sc.Ticks),
	)
	result, err := automation.RunScenario(ctx, sched, sc, cfg.Impulse)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		log.Warn("scenario command failed", zap.Error(e))
	}

	name := sc.Name
	if name == "" {
		name = "scenario"
	}
	runID, err := st.Save(storage.RunMetadata{
		Preset:      name,
		Seed:        cfg.Seed,
		Entities:    sched.World().Len(),
		Width:       cfg.Viewport.Width,
		Height:      cfg.Viewport.Height,
		Radius:      cfg.Spawn.Radius,
		Gravity:     sched.World().Params().Gravity,
		Restitution: cfg.Physics.Restitution,
		Integrator:  cfg.Physics.Integrator,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("bugs left: %d\n", sched.World().Len())
	fmt.Printf("failed commands: %d\n", len(result.Errors))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	grid := optim.NewGridSearch(
		[]string{"restitution", "gravity"},
		[][]float64{restGrid, gravGrid},
	)
	if maximize {
		grid.Maximize()
	}

	run := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		c := *cfg
		c.Physics.Restitution = params["restitution"]
		c.Physics.GravityAccel = params["gravity"]
		if err := c.Validate(); err != nil {
			return nil, err
		}
		sched, err := newScheduler(&c, zap.NewNop())
		if err != nil {
			return nil, err
		}
		defer sched.Close()

		result, err := sched.Run(ctx, c.Ticks)
		if err != nil {
			return nil, err
		}
		return result.Metrics, nil
	}

	fmt.Printf("sweeping %d configurations (seed=%d, ticks=%d)\n\n", grid.Size(), cfg.Seed, cfg.Ticks)
	best, trials, err := grid.Search(cmd.Context(), run, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RESTITUTION\tGRAVITY\t%s\n", strings.ToUpper(metricName))
	for _, tr := range trials {
		fmt.Fprintf(w, "%.3f\t%.3f\t%.6f\n", tr.Params["restitution"], tr.Params["gravity"], tr.Metrics[metricName])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: restitution=%.3f gravity=%.3f %s=%.6f\n",
		best.Params["restitution"], best.Params["gravity"], metricName, best.Metrics[metricName])
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	build := func(seed int64) (*sim.Scheduler, error) {
		c := *cfg
		c.Seed = seed
		return newScheduler(&c, zap.NewNop())
	}

	fmt.Printf("running %d seeds from %d (bugs=%d, ticks=%d)\n\n", numRuns, cfg.Seed, cfg.Spawn.Count, cfg.Ticks)
	start := time.Now()
	results, err := sim.NewEnsemble(build, numRuns, cfg.Seed).Run(cmd.Context(), cfg.Ticks)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	names := []string{"energy", "momentum", "containment"}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, name := range names {
		vals := make([]float64, len(results))
		for i, r := range results {
			vals[i] = r.Metrics[name]
		}
		mean, std, lo, hi := summarize(vals)
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", name, mean, std, lo, hi)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	collisions := 0
	for _, r := range results {
		collisions += r.Stats.Resolved
	}
	fmt.Printf("\ncollisions per run: %.1f\n", float64(collisions)/float64(len(results)))
	fmt.Printf("completed in %v\n", elapsed)
	return nil
}

func summarize(vals []float64) (mean, std, lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		mean += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean /= float64(len(vals))
	for _, v := range vals {
		std += (v - mean) * (v - mean)
	}
	std = math.Sqrt(std / float64(len(vals)))
	return mean, std, lo, hi
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators (seed=%d, bugs=%d, ticks=%d)\n\n", cfg.Seed, cfg.Spawn.Count, cfg.Ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tENERGY\tMOMENTUM\tCONTAINED\tCOLLISIONS\tTIME")

	for _, name := range args {
		c := *cfg
		c.Physics.Integrator = name
		sched, err := newScheduler(&c, zap.NewNop())
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := sched.Run(cmd.Context(), c.Ticks)
		elapsed := time.Since(start)
		sched.Close()
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.3f\t%d\t%v\n",
			name,
			result.Metrics["energy"],
			result.Metrics["momentum"],
			result.Metrics["containment"],
			result.Stats.Resolved,
			elapsed.Round(time.Microsecond),
		)
	}

	return w.Flush()
}
