package timetable

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/kilianp07/railplan/core/network"
	"github.com/kilianp07/railplan/core/search"
	"github.com/kilianp07/railplan/core/sim"
)

// Render writes the compact output: a [Train:name] block per train then a
// [Passenger:name] block per group, one "time action target" line each.
func Render(w io.Writer, tt Timetable) error {
	bw := bufio.NewWriter(w)
	for _, s := range tt.Trains {
		writeBlock(bw, "Train", s)
	}
	for _, s := range tt.Passengers {
		writeBlock(bw, "Passenger", s)
	}
	return bw.Flush()
}

func writeBlock(w io.Writer, kind string, s Schedule) {
	fmt.Fprintf(w, "[%s:%s]\n", kind, s.Name)
	for _, e := range s.Events {
		if e.Target == "" {
			fmt.Fprintf(w, "%d %s\n", e.Time, e.Action)
			continue
		}
		fmt.Fprintf(w, "%d %s %s\n", e.Time, e.Action, e.Target)
	}
	fmt.Fprintln(w)
}

// RenderVerbose dumps every step: the moves applied and how far each train
// in transit has travelled.
func RenderVerbose(w io.Writer, net *network.Network, sol search.Solution) error {
	bw := bufio.NewWriter(w)
	for _, st := range sol {
		fmt.Fprintf(bw, "[Time:%d]\n", st.T)
		for _, m := range st.Moves {
			fmt.Fprintln(bw, m.Describe(net))
		}
		for t, loc := range st.Trains {
			if loc.Place != sim.OnConnection || loc.Since == st.T {
				continue
			}
			fmt.Fprintf(bw, "%s on %s at %.2f%%\n", net.Trains[t].Name, net.Connections[loc.Connection].Name, covered(net, t, loc, st.T)*100)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// covered is the share of the connection distance travelled by time now,
// measured at the train's speed rather than in whole steps.
func covered(net *network.Network, t int, loc sim.TrainLocation, now int) float64 {
	dist := net.Connections[loc.Connection].Distance
	if dist <= 0 {
		return 1
	}
	return min(1, float64(now-loc.Since)*net.Trains[t].Speed/dist)
}

// Summary condenses a search result.
type Summary struct {
	Duration     time.Duration
	TotalDelay   int
	Arrived      int
	Passengers   int
	CheckedMoves int
	Attempts     int
	Legal        bool
}

// Summarize extracts the summary of res.
func Summarize(net *network.Network, res search.Result) Summary {
	return Summary{
		Duration:     res.Elapsed,
		TotalDelay:   res.TotalDelay,
		Arrived:      res.Arrived,
		Passengers:   len(net.Passengers),
		CheckedMoves: res.CheckedMoves,
		Attempts:     res.Attempts,
		Legal:        res.Legal,
	}
}

// WriteTo writes the summary as an aligned two-column table.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "duration\t%.3fs\n", s.Duration.Seconds())
	fmt.Fprintf(tw, "delays\t%d\n", s.TotalDelay)
	fmt.Fprintf(tw, "arrived passengers\t%d/%d\n", s.Arrived, s.Passengers)
	fmt.Fprintf(tw, "checked moves\t%d\n", s.CheckedMoves)
	fmt.Fprintf(tw, "attempts\t%d\n", s.Attempts)
	fmt.Fprintf(tw, "legal\t%t\n", s.Legal)
	err := tw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
