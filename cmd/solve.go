package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/railplan/app"
	"github.com/kilianp07/railplan/config"
	"github.com/kilianp07/railplan/core/timetable"
	"github.com/kilianp07/railplan/infra/logger"
)

var solveFlags struct {
	budgetMS      int
	tabuSize      int
	seed          int64
	workers       int
	maxCandidates int
	maxTrains     int
	horizon       int
	waitThreshold float64
	debug         bool
	inputFormat   string
	verbose       bool
	summary       bool
	exportFormat  string
	exportPath    string
	plot          string
	history       bool
}

var solveCmd = &cobra.Command{
	Use:   "solve [network]",
	Short: "Search a schedule for a network file, or stdin when omitted or -",
	Args:  cobra.MaximumNArgs(1),
	RunE:  solve,
}

func init() {
	f := solveCmd.Flags()
	f.IntVar(&solveFlags.budgetMS, "budget-ms", 0, "wall-clock search budget in milliseconds")
	f.IntVar(&solveFlags.tabuSize, "tabu-size", 0, "number of remembered state fingerprints")
	f.Int64Var(&solveFlags.seed, "seed", 0, "random seed")
	f.IntVar(&solveFlags.workers, "workers", 0, "independent searches run in parallel")
	f.IntVar(&solveFlags.maxCandidates, "max-candidates", 0, "moves tried per train and step")
	f.IntVar(&solveFlags.maxTrains, "max-trains", 0, "cap on the number of trains moved")
	f.IntVar(&solveFlags.horizon, "horizon", 0, "force the simulated time bound")
	f.Float64Var(&solveFlags.waitThreshold, "wait-threshold", 0, "enable the wait-for-full-connection rule")
	f.BoolVar(&solveFlags.debug, "debug", false, "check state consistency after every step")
	f.StringVar(&solveFlags.inputFormat, "format", "text", "stdin format: text, yaml or json")
	f.BoolVarP(&solveFlags.verbose, "verbose", "v", false, "print the state of every time step")
	f.BoolVar(&solveFlags.summary, "summary", false, "print a run summary to stderr")
	f.StringVar(&solveFlags.exportFormat, "export-format", "", "timetable export format: json or csv")
	f.StringVarP(&solveFlags.exportPath, "export", "o", "", "timetable export file")
	f.StringVar(&solveFlags.plot, "plot", "", "write an HTML chart of the best delay per step")
	f.BoolVar(&solveFlags.history, "history", false, "append the run to the history store")
	rootCmd.AddCommand(solveCmd)
}

// applySolveFlags overrides configuration values with the flags set on cmd.
func applySolveFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	sc := &cfg.Search
	if f.Changed("budget-ms") {
		sc.BudgetMS = solveFlags.budgetMS
	}
	if f.Changed("tabu-size") {
		sc.TabuSize = solveFlags.tabuSize
	}
	if f.Changed("seed") {
		sc.Seed = solveFlags.seed
	}
	if f.Changed("workers") {
		sc.Workers = solveFlags.workers
	}
	if f.Changed("max-candidates") {
		sc.MaxCandidates = solveFlags.maxCandidates
	}
	if f.Changed("max-trains") {
		sc.MaxTrains = solveFlags.maxTrains
	}
	if f.Changed("horizon") {
		sc.Horizon = solveFlags.horizon
	}
	if f.Changed("wait-threshold") {
		sc.WaitThreshold = solveFlags.waitThreshold
	}
	if f.Changed("debug") {
		sc.Debug = solveFlags.debug
	}
	if f.Changed("export") {
		cfg.Export.Path = solveFlags.exportPath
		if cfg.Export.Format == "" && !f.Changed("export-format") {
			cfg.Export.Format = "json"
		}
	}
	if f.Changed("export-format") {
		cfg.Export.Format = solveFlags.exportFormat
	}
	if f.Changed("plot") {
		cfg.Export.Plot = solveFlags.plot
	}
	if f.Changed("history") {
		cfg.History.Enabled = solveFlags.history
	}
	// Only fields where zero is invalid are defaulted here; loadConfig
	// already started from the search defaults.
	cfg.SetDefaults()
	return cfg.Validate()
}

func solve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applySolveFlags(cmd, cfg); err != nil {
		return err
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	ctx := cmd.Context()
	var out *app.Outcome
	if len(args) == 0 || args[0] == "-" {
		out, err = svc.SolveReader(ctx, "stdin", cmd.InOrStdin(), solveFlags.inputFormat)
	} else {
		out, err = svc.SolveFile(ctx, args[0])
	}
	if out == nil {
		return err
	}
	if rerr := render(cmd.OutOrStdout(), out); rerr != nil {
		return rerr
	}
	if solveFlags.summary {
		if _, serr := out.Summary.WriteTo(cmd.ErrOrStderr()); serr != nil {
			return serr
		}
	}
	return err
}

func render(w io.Writer, out *app.Outcome) error {
	if solveFlags.verbose {
		return timetable.RenderVerbose(w, out.Network, out.Result.Solution)
	}
	return timetable.Render(w, out.Timetable)
}
