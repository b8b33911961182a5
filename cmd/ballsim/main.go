package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/export"
	"github.com/san-kum/ballsim/internal/fsm"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/tui"
)

var (
	configFile string
	preset     string

	dt        float64
	duration  float64
	gravity   float64
	friction  float64
	bounce    float64
	threshold float64
	async     bool

	grabAt    float64
	releaseAt float64
	throwVX   float64
	throwVY   float64

	jsonPath string
	csvPath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ballsim",
		Short: "interactive ball physics playground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset configuration")
	rootCmd.PersistentFlags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	rootCmd.PersistentFlags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	rootCmd.PersistentFlags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity")
	rootCmd.PersistentFlags().Float64Var(&friction, "friction", config.DefaultFriction, "friction coefficient [0,1]")
	rootCmd.PersistentFlags().Float64Var(&bounce, "bounce", config.DefaultBounce, "bounce factor [0,1]")
	rootCmd.PersistentFlags().Float64Var(&threshold, "threshold", config.DefaultVelocityThreshold, "velocity stop threshold")
	rootCmd.PersistentFlags().BoolVar(&async, "async", false, "asynchronous observer notifications")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scripted throw headlessly",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&grabAt, "grab-at", 0.5, "grab time")
	runCmd.Flags().Float64Var(&releaseAt, "release-at", 1.0, "release time")
	runCmd.Flags().Float64Var(&throwVX, "vx", 400, "throw velocity x")
	runCmd.Flags().Float64Var(&throwVY, "vy", -300, "throw velocity y")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write trajectory JSON to path")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write trajectory CSV to path")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "interactive terminal session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot speed and height traces of a scripted throw",
		RunE:  plotRun,
	}
	plotCmd.Flags().Float64Var(&grabAt, "grab-at", 0.5, "grab time")
	plotCmd.Flags().Float64Var(&releaseAt, "release-at", 1.0, "release time")
	plotCmd.Flags().Float64Var(&throwVX, "vx", 400, "throw velocity x")
	plotCmd.Flags().Float64Var(&throwVY, "vy", -300, "throw velocity y")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, playCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers preset, config file, and explicit flags, in that
// order of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("friction") {
		cfg.FrictionCoefficient = friction
	}
	if flags.Changed("bounce") {
		cfg.BounceFactor = bounce
	}
	if flags.Changed("threshold") {
		cfg.VelocityThreshold = threshold
	}
	if flags.Changed("async") {
		cfg.AsyncNotifications = async
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runScripted(cmd *cobra.Command) (*config.Config, *sim.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := sim.New(cfg)
	defer runner.Close()
	runner.AddMetric(metrics.NewKineticEnergy())
	runner.AddMetric(metrics.NewPeakSpeed())
	runner.AddMetric(metrics.NewBounceCount())
	runner.AddMetric(metrics.NewTimeInState(fsm.StateThrown))

	result, err := runner.Run(ctx, sim.ThrowScript(grabAt, releaseAt, throwVX, throwVY))
	if err != nil {
		return nil, result, err
	}
	return cfg, result, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg, result, err := runScripted(cmd)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "steps\t%d\n", result.StepsTaken)
	fmt.Fprintf(w, "sim time\t%.2fs\n", cfg.Duration)
	fmt.Fprintf(w, "wall time\t%s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "final state\t%s\n", result.FinalState())
	fmt.Fprintf(w, "bounces\t%d\n", result.Bounces)
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.3f\n", name, result.Metrics[name])
	}
	for _, ch := range result.Transitions {
		fmt.Fprintf(w, "transition\t%s -> %s (%s)\n", ch.From, ch.To, ch.Trigger)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if jsonPath != "" {
		if err := export.JSONFile(jsonPath, preset, cfg.Dt, cfg.Duration, result); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonPath)
	}
	if csvPath != "" {
		if err := export.CSVFile(csvPath, result); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvPath)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, result, err := runScripted(cmd)
	if err != nil {
		return err
	}

	speeds := make([]float64, len(result.VXs))
	for i := range result.VXs {
		speeds[i] = math.Hypot(result.VXs[i], result.VYs[i])
	}
	heights := make([]float64, len(result.Ys))
	for i, y := range result.Ys {
		// Flip so up is up in the plot.
		heights[i] = cfg.Bounds.MaxY - y
	}

	fmt.Println(asciigraph.Plot(speeds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("speed (units/s)")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(heights,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("height above floor")))
	return nil
}
