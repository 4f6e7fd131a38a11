package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/eneri4/exploration-drones/internal/api"
	"github.com/eneri4/exploration-drones/internal/config"
	"github.com/eneri4/exploration-drones/internal/energy"
	"github.com/eneri4/exploration-drones/internal/engine"
	"github.com/eneri4/exploration-drones/internal/persistence"
	"github.com/eneri4/exploration-drones/internal/printer"
	"github.com/eneri4/exploration-drones/internal/render"
	"github.com/eneri4/exploration-drones/internal/schedule"
)

var (
	runConfigPath string
	runMode       string
	runPolicy     string
	runWidth      int
	runHeight     int
	runAgents     int
	runRounds     int
	runSeed       int64
	runLayout     string
	runRender     bool
	runInterval   time.Duration
	runServe      string
	runDB         string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one exploration simulation",
	Long: `Run one exploration simulation and print a summary.

Settings come from the built-in defaults, then --config, then any flags
given on the command line.

Examples:
  # Three drones on a 10x10 grid, full mesh
  dronesim run

  # Seven drones with the (7,3,1) design, only the active block moving
  dronesim run --agents 7 --width 20 --height 20 --layout random --mode bibd-fast

  # Watch it in the terminal and over HTTP
  dronesim run --render --interval 100ms --serve :8080`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runConfigPath, "config", "c", "", "YAML config file")
	f.StringVarP(&runMode, "mode", "m", "", "Communication mode (full, bibd, bibd-fast)")
	f.StringVarP(&runPolicy, "policy", "p", "", "Movement policy (random, ring, hold)")
	f.IntVar(&runWidth, "width", 0, "Grid width")
	f.IntVar(&runHeight, "height", 0, "Grid height")
	f.IntVarP(&runAgents, "agents", "n", 0, "Number of drones")
	f.IntVarP(&runRounds, "rounds", "t", 0, "Round budget")
	f.Int64Var(&runSeed, "seed", 0, "Random seed")
	f.StringVar(&runLayout, "layout", "", "Start layout (fixed, random, corners, noise)")
	f.BoolVar(&runRender, "render", false, "Draw every round in the terminal")
	f.DurationVar(&runInterval, "interval", 0, "Pause between rounds")
	f.StringVar(&runServe, "serve", "", "Serve the observation API on this address (e.g. :8080)")
	f.StringVar(&runDB, "db", "", "SQLite file to record the run summary in")
	rootCmd.AddCommand(runCmd)
}

// loadRunConfig layers the config file and the changed flags over the defaults.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.Load(runConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Communication.Mode = runMode
	}
	if flags.Changed("policy") {
		cfg.Movement.Policy = runPolicy
	}
	if flags.Changed("width") {
		cfg.Grid.Width = runWidth
	}
	if flags.Changed("height") {
		cfg.Grid.Height = runHeight
	}
	if flags.Changed("agents") && runAgents != cfg.Drones.Count {
		cfg.Drones.Count = runAgents
		// Explicit positions no longer match the swarm size.
		if cfg.Drones.Layout == "fixed" && !flags.Changed("layout") {
			cfg.Drones.Layout = "random"
		}
	}
	if flags.Changed("rounds") {
		cfg.Rounds = runRounds
	}
	if flags.Changed("seed") {
		cfg.Seed = runSeed
	}
	if flags.Changed("layout") {
		cfg.Drones.Layout = runLayout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return printer.Error("cannot start run", err.Error(), []string{
			"Check the config file and flags with: dronesim run --help",
		})
	}

	mode, modeErr := cfg.Mode()
	if modeErr != nil {
		printer.Warning("unknown communication mode %q, running full mesh instead\n", cfg.Communication.Mode)
	}

	ec, err := cfg.ToEngine()
	if err != nil {
		return printer.Error("cannot build simulation", err.Error(), nil)
	}
	sim, err := engine.NewSimulation(ec)
	if err != nil {
		return printer.Error("cannot build simulation", err.Error(), nil)
	}

	eng := engine.NewEngine()
	eng.Interval = runInterval

	if runRender {
		sim.AddObserver(render.NewTerminal(cmd.OutOrStdout(), true))
	}

	var db *persistence.DB
	if runDB != "" {
		if db, err = persistence.Open(runDB); err != nil {
			return printer.Error("cannot open results store", err.Error(), nil)
		}
		defer db.Close()
	}

	if runServe != "" {
		srv := api.NewServer(runServe, eng, db)
		sim.AddObserver(srv)
		srv.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			slog.Info("received signal, stopping", "signal", sig)
			eng.Stop()
		case <-ctx.Done():
		}
	}()

	res, err := eng.Run(ctx, sim)
	if err != nil {
		return printer.Error("simulation failed", err.Error(), nil)
	}

	printRunSummary(res, mode, ec.Design.K)

	if db != nil {
		id, err := db.SaveRun(res, persistence.RunMeta{
			Width:  cfg.Grid.Width,
			Height: cfg.Grid.Height,
			Layout: cfg.Drones.Layout,
			Seed:   cfg.Seed,
			Budget: cfg.Rounds,
		})
		if err != nil {
			return printer.Error("cannot save run", err.Error(), nil)
		}
		printer.Success("run saved as %s\n", id)
	}
	return nil
}

func printRunSummary(res engine.Result, mode schedule.Mode, k int) {
	active := res.Drones
	if mode != schedule.ModeFull {
		active = k
	}
	est := energy.Default.Measured(res.Exchanges, res.Drones, active)

	printer.Heading("\nRun finished: %s\n", res.Reason)
	printer.Info("  mode:          %s\n", res.Mode)
	printer.Info("  policy:        %s\n", res.Policy)
	printer.Info("  drones:        %d\n", res.Drones)
	printer.Info("  rounds:        %s\n", humanize.Comma(int64(res.Rounds)))
	printer.Info("  coverage:      %d/%d (%.1f%%)\n", res.Covered, res.Total, 100*res.Coverage())
	printer.Info("  exchanges:     %s\n", humanize.Comma(int64(res.Exchanges)))
	printer.Info("  energy:        %s W·period\n", formatEnergy(est.Energy))
	printer.Info("  synchronized:  %t\n", res.Synchronized)
}
