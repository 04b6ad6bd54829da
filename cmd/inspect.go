package cmd

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/kilianp07/railplan/core/network"
	"github.com/kilianp07/railplan/core/parser"
)

var inspectPaths bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <network>",
	Short: "Print a parsed network and its derived search constants",
	Args:  cobra.ExactArgs(1),
	RunE:  inspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectPaths, "paths", false, "also print every shortest path")
	rootCmd.AddCommand(inspectCmd)
}

type pathView struct {
	From, To string
	Distance float64
	Stations []string
}

type networkView struct {
	Stations    []network.Station
	Connections []network.Connection
	Trains      []network.Train
	Passengers  []network.Passenger
	MaxArrival  int
	MaxDistance float64
	Horizon     int
	UsedTrains  int
	Paths       []pathView
}

func inspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	net, err := parser.LoadFile(args[0], cfg.Search.NetworkOptions())
	if err != nil {
		return err
	}
	view := networkView{
		Stations:    net.Stations,
		Connections: net.Connections,
		Trains:      net.Trains,
		Passengers:  net.Passengers,
		MaxArrival:  net.MaxArrival,
		MaxDistance: net.MaxDistance,
		Horizon:     net.Horizon,
		UsedTrains:  net.UsedTrains,
	}
	if inspectPaths {
		view.Paths = paths(net)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%# v\n", pretty.Formatter(view))
	return err
}

// paths lists the reachable shortest paths between distinct stations.
func paths(net *network.Network) []pathView {
	var out []pathView
	for a := range net.Stations {
		for b := range net.Stations {
			p := net.Path(a, b)
			if a == b || !p.Reachable() {
				continue
			}
			names := make([]string, len(p.Stations))
			for i, s := range p.Stations {
				names[i] = net.Stations[s].Name
			}
			out = append(out, pathView{From: net.Stations[a].Name, To: net.Stations[b].Name, Distance: p.Distance, Stations: names})
		}
	}
	return out
}
