package network

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Path is a shortest route between two stations. Stations runs from the
// origin to the destination inclusive and is empty for self pairs and
// unreachable pairs. Unreachable pairs have an infinite distance.
type Path struct {
	Stations []StationID
	Distance float64
}

// Reachable reports whether the path has a finite distance.
func (p Path) Reachable() bool { return !math.IsInf(p.Distance, 1) }

// Contains reports whether s lies on the path.
func (p Path) Contains(s StationID) bool {
	for _, id := range p.Stations {
		if id == s {
			return true
		}
	}
	return false
}

// shortestPaths runs one Dijkstra per station over the undirected network.
// Parallel connections keep the shortest distance and self loops are ignored.
func shortestPaths(stations int, conns []Connection) [][]Path {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := 0; i < stations; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, c := range conns {
		if c.A == c.B {
			continue
		}
		if e := g.WeightedEdge(int64(c.A), int64(c.B)); e != nil && e.Weight() <= c.Distance {
			continue
		}
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(c.A), simple.Node(c.B), c.Distance))
	}

	table := make([][]Path, stations)
	for from := 0; from < stations; from++ {
		table[from] = make([]Path, stations)
		sh := path.DijkstraFrom(simple.Node(from), g)
		for to := 0; to < stations; to++ {
			if from == to {
				table[from][to] = Path{}
				continue
			}
			nodes, weight := sh.To(int64(to))
			if len(nodes) == 0 {
				table[from][to] = Path{Distance: math.Inf(1)}
				continue
			}
			ids := make([]StationID, len(nodes))
			for i, n := range nodes {
				ids[i] = StationID(n.ID())
			}
			table[from][to] = Path{Stations: ids, Distance: weight}
		}
	}
	return table
}
