package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/beerslab/internal/config"
	"github.com/san-kum/beerslab/internal/metrics"
	"github.com/san-kum/beerslab/internal/sim"
	"github.com/san-kum/beerslab/internal/snapshot"
	"github.com/san-kum/beerslab/internal/solute"
	"github.com/san-kum/beerslab/internal/storage"
)

var (
	dataDir  string
	logLevel string

	configFile   string
	soluteName   string
	dt           float64
	duration     float64
	seed         int64
	rate         float64
	saveSnapshot string
	fromSnapshot string
	metricsFile  string
	noStore      bool

	numRuns int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "beerslab",
		Short:         "solute shaker and precipitate simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".beerslab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a shaking scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&saveSnapshot, "save-snapshot", "", "save the final state under this name")
	runCmd.Flags().StringVar(&fromSnapshot, "from-snapshot", "", "resume from a saved state")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this file")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not save the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a scenario under consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepSeeds,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

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

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	solutesCmd := &cobra.Command{
		Use:   "solutes",
		Short: "list available solutes",
		RunE:  listSolutes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	snapshotsCmd := &cobra.Command{
		Use:   "snapshots",
		Short: "list saved snapshots",
		RunE:  listSnapshots,
	}
	snapshotsCmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteSnapshot,
	})

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, solutesCmd, presetsCmd, snapshotsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&soluteName, "solute", config.DefaultSolute, "solute name")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&rate, "rate", 0, "shake at this rate for the whole run (mol/s)")
}

// scenario builds the config from a preset or config file, then applies
// any flags that were set explicitly.
func scenario(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	preset := ""
	if len(args) == 1 {
		preset = args[0]
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("solute") {
		cfg.Solute = soluteName
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("rate") {
		cfg.Schedule = []config.ShakeWindow{{Start: 0, End: cfg.Duration, Rate: rate}}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, preset, nil
}

func defaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewDissolutionRate(),
		metrics.NewPeakPrecipitate(),
		metrics.NewTimeToSaturation(),
	}
}

func openSnapshots() (*snapshot.Store, error) {
	return snapshot.Open(filepath.Join(dataDir, "snapshots.db"))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, preset, err := scenario(cmd, args)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg, solute.DefaultRegistry())
	if err != nil {
		return err
	}
	for _, m := range defaultMetrics() {
		s.AddMetric(m)
	}

	var snapshots *snapshot.Store
	if saveSnapshot != "" || fromSnapshot != "" {
		if snapshots, err = openSnapshots(); err != nil {
			return err
		}
		defer snapshots.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if fromSnapshot != "" {
		st, err := snapshots.Load(ctx, fromSnapshot)
		if err != nil {
			return err
		}
		if err := s.Restore(st); err != nil {
			return err
		}
	}

	// a snapshot may have switched the solute
	active := s.Solution.Solute.Value().Name

	var exporter *metrics.Exporter
	if metricsFile != "" {
		exporter = metrics.NewExporter(prometheus.NewRegistry(), active)
		s.AddObserver(exporter)
	}

	fmt.Printf("running %s for %.1fs...\n", active, cfg.Duration-s.Time())
	start := time.Now()

	result, err := s.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		fmt.Println(warnStyle.Render(fmt.Sprintf("interrupted at t=%.2fs", s.Time())))
	}
	elapsed := time.Since(start)

	runID := "-"
	if !noStore {
		st := storage.New(filepath.Join(dataDir, "runs"))
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(runMetadata(s, cfg, preset, fromSnapshot), result)
		if err != nil {
			return err
		}
	}

	if saveSnapshot != "" {
		if err := snapshots.Save(cmd.Context(), s.Capture(saveSnapshot)); err != nil {
			return err
		}
	}

	if exporter != nil {
		if err := exporter.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	final := s.Sample()
	rows := []row{
		{"run id", runID},
		{"completed in", elapsed.Round(time.Millisecond).String()},
		{"steps", strconv.Itoa(result.Steps)},
		{"solute moles", fmt.Sprintf("%.4f mol", final.SoluteMoles)},
		{"concentration", fmt.Sprintf("%.4f M", final.Concentration)},
		{"precipitate", fmt.Sprintf("%.4f mol", final.PrecipitateMoles)},
		{"particles in flight", strconv.Itoa(final.ShakerParticles)},
		{"precipitate particles", strconv.Itoa(final.PrecipitateParticles)},
		{"dispensed / dissolved", fmt.Sprintf("%d / %d", final.Dispensed, final.Dissolved)},
	}
	rows = append(rows, metricRows(result.Metrics)...)
	fmt.Println(renderPanel(active, rows))

	return nil
}

// runMetadata describes a finished run. The solute comes from the
// simulator rather than the config since a restored snapshot can change it.
func runMetadata(s *sim.Simulator, cfg *config.Config, preset, resumed string) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:   preset,
		Solute:   s.Solution.Solute.Value().Name,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Resumed:  resumed,
	}
}

func sweepSeeds(cmd *cobra.Command, args []string) error {
	cfg, _, err := scenario(cmd, args)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := sim.NewEnsemble(cfg, solute.DefaultRegistry(), numRuns, cfg.Seed, defaultMetrics).Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tMOLES\tPRECIPITATE\tDISPENSED\tDISSOLVED\tSATURATED AT")
	mean := make(map[string]float64)
	for i, r := range results {
		final := r.Samples[len(r.Samples)-1]
		saturated := "-"
		if at := r.Metrics["time_to_saturation"]; at >= 0 {
			saturated = fmt.Sprintf("%.2fs", at)
		}
		fmt.Fprintf(w, "%d\t%.4f\t%d\t%d\t%d\t%s\n",
			cfg.Seed+int64(i), final.SoluteMoles, final.PrecipitateParticles, final.Dispensed, final.Dissolved, saturated)
		for name, v := range r.Metrics {
			mean[name] += v / float64(len(results))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println(renderPanel(fmt.Sprintf("%s, mean of %d runs", cfg.Solute, len(results)), metricRows(mean)))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(filepath.Join(dataDir, "runs"))
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOLUTE\tPRESET\tTIME\tDURATION\tDT\tSEED")

	for _, run := range runs {
		preset := run.Preset
		if preset == "" {
			preset = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Solute,
			preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(filepath.Join(dataDir, "runs"))
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("solute: %s\n", meta.Solute)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(sim.Sample) float64
	}{
		{"concentration (M)", func(s sim.Sample) float64 { return s.Concentration }},
		{"solute moles", func(s sim.Sample) float64 { return s.SoluteMoles }},
		{"particles in flight", func(s sim.Sample) float64 { return float64(s.ShakerParticles) }},
		{"precipitate particles", func(s sim.Sample) float64 { return float64(s.PrecipitateParticles) }},
	}

	for _, ser := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = ser.value(s)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ser.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(filepath.Join(dataDir, "runs"))
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(filepath.Join(dataDir, "runs"))
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "concentration", "solute_moles", "precipitate_moles", "shaker_particles", "precipitate_particles"}); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, s := range samples {
		if err := w.Write([]string{
			f(s.Time), f(s.Concentration), f(s.SoluteMoles), f(s.PrecipitateMoles),
			strconv.Itoa(s.ShakerParticles), strconv.Itoa(s.PrecipitateParticles),
		}); err != nil {
			return err
		}
	}

	return nil
}

func listSolutes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFORMULA\tSATURATED\tSTOCK\tSIZE\tPARTICLES/MOL")
	for _, s := range solute.DefaultRegistry().List() {
		fmt.Fprintf(w, "%s\t%s\t%.2f M\t%.2f M\t%.0f\t%.0f\n",
			s.Name, s.Formula, s.SaturatedConcentration, s.StockSolutionConcentration, s.ParticleSize, s.ParticlesPerMole)
	}
	return w.Flush()
}

func listSnapshots(cmd *cobra.Command, args []string) error {
	st, err := openSnapshots()
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOLUTE\tSAVED\tIN FLIGHT\tPRECIPITATE")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			s.Name, s.Solute, s.SavedAt.Local().Format("2006-01-02 15:04:05"), s.Shaker, s.Precipitate)
	}
	return w.Flush()
}

func deleteSnapshot(cmd *cobra.Command, args []string) error {
	st, err := openSnapshots()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}
