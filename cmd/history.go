package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/railplan/api/runs"
	"github.com/kilianp07/railplan/core/runlog"
)

var historyFlags struct {
	network string
	legal   bool
	since   time.Duration
	limit   int
	serve   bool
	listen  string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs from the history store",
	Args:  cobra.NoArgs,
	RunE:  history,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.network, "network", "", "only runs of this network")
	f.BoolVar(&historyFlags.legal, "legal", false, "only runs that found a legal schedule")
	f.DurationVar(&historyFlags.since, "since", 0, "only runs started within this duration")
	f.IntVar(&historyFlags.limit, "limit", 20, "show at most this many of the latest runs, 0 for all")
	f.BoolVar(&historyFlags.serve, "serve", false, "serve the history over HTTP instead of printing it")
	f.StringVar(&historyFlags.listen, "listen", "", "address for --serve, overrides history.listen")
	rootCmd.AddCommand(historyCmd)
}

func history(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := runlog.Open(cfg.History.Options())
	if err != nil {
		return err
	}
	defer store.Close()

	if historyFlags.serve {
		addr := cfg.History.Listen
		if historyFlags.listen != "" {
			addr = historyFlags.listen
		}
		return runs.Serve(cmd.Context(), addr, store, cfg.History.Token)
	}

	q := runlog.Query{Network: historyFlags.network, LegalOnly: historyFlags.legal}
	if historyFlags.since > 0 {
		q.Start = time.Now().Add(-historyFlags.since)
	}
	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	if n := historyFlags.limit; n > 0 && len(recs) > n {
		recs = recs[len(recs)-n:]
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tNETWORK\tSEED\tDELAY\tARRIVED\tLEGAL\tATTEMPTS\tELAPSED\tRUN")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d/%d\t%t\t%d\t%s\t%s\n",
			r.Timestamp.Local().Format(time.DateTime), r.Network, r.Seed, r.TotalDelay,
			r.Arrived, r.Passengers, r.Legal, r.Attempts,
			(time.Duration(r.ElapsedMS) * time.Millisecond).String(), r.RunID)
	}
	return tw.Flush()
}
