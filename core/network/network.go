package network

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidNetwork is returned when a definition violates the model invariants.
var ErrInvalidNetwork = errors.New("invalid network")

// StationID indexes Network.Stations.
type StationID = int

// ConnectionID indexes Network.Connections.
type ConnectionID = int

// TrainID indexes Network.Trains.
type TrainID = int

// GroupID indexes Network.Passengers.
type GroupID = int

// AnyStation marks a train whose start station is chosen by the search.
const AnyStation StationID = -1

// Station is a stop with a bounded number of standing trains.
type Station struct {
	Name     string `json:"name" yaml:"name"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

// Connection is an undirected line between two stations.
type Connection struct {
	Name     string    `json:"name" yaml:"name"`
	A        StationID `json:"a" yaml:"a"`
	B        StationID `json:"b" yaml:"b"`
	Distance float64   `json:"distance" yaml:"distance"`
	Capacity int       `json:"capacity" yaml:"capacity"`
}

// Train moves passenger groups. Start is AnyStation when unplaced.
type Train struct {
	Name     string    `json:"name" yaml:"name"`
	Start    StationID `json:"start" yaml:"start"`
	Speed    float64   `json:"speed" yaml:"speed"`
	Capacity int       `json:"capacity" yaml:"capacity"`
}

// Passenger is a group travelling together as one unit.
type Passenger struct {
	Name        string    `json:"name" yaml:"name"`
	Start       StationID `json:"start" yaml:"start"`
	Destination StationID `json:"destination" yaml:"destination"`
	Size        int       `json:"size" yaml:"size"`
	Arrival     int       `json:"arrival" yaml:"arrival"`
}

// Definition is the raw network as produced by a parser.
type Definition struct {
	Stations    []Station    `json:"stations" yaml:"stations"`
	Connections []Connection `json:"connections" yaml:"connections"`
	Trains      []Train      `json:"trains" yaml:"trains"`
	Passengers  []Passenger  `json:"passengers" yaml:"passengers"`
}

// Options tune the derived search constants.
type Options struct {
	// Horizon replaces the derived horizon when positive.
	Horizon int
	// MaxTrains caps the number of trains moved by the search when positive.
	MaxTrains int
}

// Network is the immutable model shared by every simulation state.
type Network struct {
	Stations    []Station
	Connections []Connection
	Trains      []Train
	Passengers  []Passenger

	// StationConnections lists the connections incident to each station.
	StationConnections [][]ConnectionID

	MaxArrival  int
	MaxDistance float64
	Horizon     int
	UsedTrains  int

	paths [][]Path
}

// New validates def and precomputes shortest paths and search constants.
func New(def Definition, opts Options) (*Network, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	n := &Network{
		Stations:    append([]Station(nil), def.Stations...),
		Connections: append([]Connection(nil), def.Connections...),
		Trains:      append([]Train(nil), def.Trains...),
		Passengers:  append([]Passenger(nil), def.Passengers...),
	}
	n.StationConnections = make([][]ConnectionID, len(n.Stations))
	for id, c := range n.Connections {
		n.StationConnections[c.A] = append(n.StationConnections[c.A], id)
		if c.B != c.A {
			n.StationConnections[c.B] = append(n.StationConnections[c.B], id)
		}
	}
	n.paths = shortestPaths(len(n.Stations), n.Connections)
	for _, row := range n.paths {
		for _, p := range row {
			if !math.IsInf(p.Distance, 1) && p.Distance > n.MaxDistance {
				n.MaxDistance = p.Distance
			}
		}
	}
	for _, p := range n.Passengers {
		if p.Arrival > n.MaxArrival {
			n.MaxArrival = p.Arrival
		}
	}

	n.UsedTrains = len(n.Trains)
	if len(n.Passengers) < n.UsedTrains {
		n.UsedTrains = max(1, len(n.Passengers))
	}
	if opts.MaxTrains > 0 && opts.MaxTrains < n.UsedTrains {
		n.UsedTrains = opts.MaxTrains
	}

	n.Horizon = n.MaxArrival + 2
	if slowest := n.slowestUsedSpeed(); slowest > 0 {
		n.Horizon += int(math.Ceil(n.MaxDistance / slowest))
	}
	if opts.Horizon > 0 {
		n.Horizon = opts.Horizon
	}
	return n, nil
}

// Validate checks ids, distances, capacities and speeds.
func (d Definition) Validate() error {
	ns := len(d.Stations)
	if ns == 0 {
		return fmt.Errorf("%w: no stations", ErrInvalidNetwork)
	}
	for _, s := range d.Stations {
		if s.Capacity < 0 {
			return fmt.Errorf("%w: station %q: negative capacity %d", ErrInvalidNetwork, s.Name, s.Capacity)
		}
	}
	for _, c := range d.Connections {
		if !inRange(c.A, ns) || !inRange(c.B, ns) {
			return fmt.Errorf("%w: connection %q: unknown endpoint", ErrInvalidNetwork, c.Name)
		}
		if c.Distance < 0 || math.IsNaN(c.Distance) {
			return fmt.Errorf("%w: connection %q: invalid distance %v", ErrInvalidNetwork, c.Name, c.Distance)
		}
		if c.Capacity < 0 {
			return fmt.Errorf("%w: connection %q: negative capacity %d", ErrInvalidNetwork, c.Name, c.Capacity)
		}
	}
	for _, t := range d.Trains {
		if t.Start != AnyStation && !inRange(t.Start, ns) {
			return fmt.Errorf("%w: train %q: unknown start station", ErrInvalidNetwork, t.Name)
		}
		if t.Speed <= 0 {
			return fmt.Errorf("%w: train %q: speed must be positive", ErrInvalidNetwork, t.Name)
		}
		if t.Capacity < 0 {
			return fmt.Errorf("%w: train %q: negative capacity %d", ErrInvalidNetwork, t.Name, t.Capacity)
		}
	}
	for _, p := range d.Passengers {
		if !inRange(p.Start, ns) || !inRange(p.Destination, ns) {
			return fmt.Errorf("%w: passenger %q: unknown station", ErrInvalidNetwork, p.Name)
		}
		if p.Size <= 0 {
			return fmt.Errorf("%w: passenger %q: size must be positive", ErrInvalidNetwork, p.Name)
		}
		if p.Arrival < 0 {
			return fmt.Errorf("%w: passenger %q: negative arrival %d", ErrInvalidNetwork, p.Name, p.Arrival)
		}
	}
	return nil
}

func inRange(id, n int) bool { return id >= 0 && id < n }

func (n *Network) slowestUsedSpeed() float64 {
	slowest := 0.0
	for i := 0; i < n.UsedTrains; i++ {
		if sp := n.Trains[i].Speed; slowest == 0 || sp < slowest {
			slowest = sp
		}
	}
	return slowest
}

// Path returns the shortest path between two stations.
func (n *Network) Path(from, to StationID) Path { return n.paths[from][to] }

// Distance returns the shortest distance between two stations.
func (n *Network) Distance(from, to StationID) float64 { return n.paths[from][to].Distance }

// NormalizedDistance scales d by MaxDistance so that the longest shortest
// path maps to 1. It returns 0 when every station is at the same place.
func (n *Network) NormalizedDistance(d float64) float64 {
	if n.MaxDistance == 0 {
		return 0
	}
	return d / n.MaxDistance
}

// Destination returns the endpoint of c opposite to from.
func (n *Network) Destination(from StationID, c ConnectionID) StationID {
	conn := n.Connections[c]
	if conn.A == from {
		return conn.B
	}
	return conn.A
}

// TravelTime is the number of time steps train t needs to cross c.
func (n *Network) TravelTime(t TrainID, c ConnectionID) int {
	steps := int(math.Ceil(n.Connections[c].Distance / n.Trains[t].Speed))
	return max(1, steps)
}

// UnarrivedDelay is the delay charged to a group that never reaches its destination.
func (n *Network) UnarrivedDelay() int { return n.Horizon + 1 }
