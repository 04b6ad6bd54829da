package sim

import (
	"fmt"

	"github.com/kilianp07/railplan/core/network"
)

// TrainPlace enumerates where a train can be.
type TrainPlace uint8

const (
	NotStarted TrainPlace = iota
	AtStation
	OnConnection
)

// TrainLocation is exactly one of not started, at a station or in transit.
// In transit, Station is the destination and Since the departure time.
type TrainLocation struct {
	Place      TrainPlace
	Station    network.StationID
	Connection network.ConnectionID
	Since      int
}

// GroupPlace enumerates where a passenger group can be.
type GroupPlace uint8

const (
	Waiting GroupPlace = iota
	Aboard
	Arrived
)

// GroupLocation is exactly one of waiting at a station, aboard a train or arrived.
type GroupLocation struct {
	Place   GroupPlace
	Station network.StationID
	Train   network.TrainID
}

// State is the simulation at one time step. It is mutated in place by Push
// and restored by Pop; Next returns a fresh copy for the following step.
type State struct {
	net *network.Network

	T int

	StationCapacity    []int
	ConnectionCapacity []int
	TrainCapacity      []int

	Trains []TrainLocation
	Groups []GroupLocation

	StationGroups []IDSet
	TrainGroups   []IDSet
	ArrivedGroups IDSet

	// Delays holds arrival time minus required arrival per group, or the
	// network's unarrived delay while the group is still travelling.
	Delays []int

	// Moves are the moves applied at T, in order.
	Moves []Move
}

// NewState derives the initial state: trains with a fixed start stand at
// their station and use its capacity, every group waits at its start.
func NewState(net *network.Network) *State {
	s := &State{
		net:                net,
		StationCapacity:    make([]int, len(net.Stations)),
		ConnectionCapacity: make([]int, len(net.Connections)),
		TrainCapacity:      make([]int, len(net.Trains)),
		Trains:             make([]TrainLocation, len(net.Trains)),
		Groups:             make([]GroupLocation, len(net.Passengers)),
		StationGroups:      make([]IDSet, len(net.Stations)),
		TrainGroups:        make([]IDSet, len(net.Trains)),
		Delays:             make([]int, len(net.Passengers)),
	}
	for i, st := range net.Stations {
		s.StationCapacity[i] = st.Capacity
	}
	for i, c := range net.Connections {
		s.ConnectionCapacity[i] = c.Capacity
	}
	for i, t := range net.Trains {
		s.TrainCapacity[i] = t.Capacity
		if t.Start == network.AnyStation {
			s.Trains[i] = TrainLocation{Place: NotStarted}
			continue
		}
		s.Trains[i] = TrainLocation{Place: AtStation, Station: t.Start}
		s.StationCapacity[t.Start]--
	}
	for i, p := range net.Passengers {
		s.Groups[i] = GroupLocation{Place: Waiting, Station: p.Start}
		s.StationGroups[p.Start].Insert(i)
		s.Delays[i] = net.UnarrivedDelay()
	}
	return s
}

// Network returns the model the state was derived from.
func (s *State) Network() *network.Network { return s.net }

// Clone returns a deep copy sharing only the immutable network.
func (s *State) Clone() *State {
	c := &State{
		net:                s.net,
		T:                  s.T,
		StationCapacity:    cloneInts(s.StationCapacity),
		ConnectionCapacity: cloneInts(s.ConnectionCapacity),
		TrainCapacity:      cloneInts(s.TrainCapacity),
		Trains:             append([]TrainLocation(nil), s.Trains...),
		Groups:             append([]GroupLocation(nil), s.Groups...),
		StationGroups:      make([]IDSet, len(s.StationGroups)),
		TrainGroups:        make([]IDSet, len(s.TrainGroups)),
		ArrivedGroups:      s.ArrivedGroups.Clone(),
		Delays:             cloneInts(s.Delays),
	}
	for i, g := range s.StationGroups {
		c.StationGroups[i] = g.Clone()
	}
	for i, g := range s.TrainGroups {
		c.TrainGroups[i] = g.Clone()
	}
	if len(s.Moves) > 0 {
		c.Moves = append([]Move(nil), s.Moves...)
	}
	return c
}

func cloneInts(v []int) []int { return append([]int(nil), v...) }

// Next returns the state of the following time step. Moves are cleared and
// trains whose transit is complete land at their destination.
func (s *State) Next() *State {
	n := s.Clone()
	n.T++
	n.Moves = nil
	for t, loc := range n.Trains {
		if loc.Place != OnConnection {
			continue
		}
		if n.T-loc.Since < n.net.TravelTime(t, loc.Connection) {
			continue
		}
		n.StationCapacity[loc.Station]--
		n.ConnectionCapacity[loc.Connection]++
		n.Trains[t] = TrainLocation{Place: AtStation, Station: loc.Station}
	}
	return n
}

// Progress returns the fraction of its current connection train t has covered.
func (s *State) Progress(t network.TrainID) float64 {
	loc := s.Trains[t]
	if loc.Place != OnConnection {
		return 0
	}
	return min(1, float64(s.T-loc.Since)/float64(s.net.TravelTime(t, loc.Connection)))
}

// TrainArrival returns the time step at which train t reaches the end of its
// connection, or -1 when it is not in transit.
func (s *State) TrainArrival(t network.TrainID) int {
	loc := s.Trains[t]
	if loc.Place != OnConnection {
		return -1
	}
	return loc.Since + s.net.TravelTime(t, loc.Connection)
}

// EstimatedCapacity is the remaining capacity of station st once every train
// in transit towards it that arrives no later than at has landed.
func (s *State) EstimatedCapacity(at int, st network.StationID) int {
	est := s.StationCapacity[st]
	for t, loc := range s.Trains {
		if loc.Place == OnConnection && loc.Station == st && s.TrainArrival(t) <= at {
			est--
		}
	}
	return est
}

// HasStationOverload reports whether any station capacity is negative.
func (s *State) HasStationOverload() bool {
	for _, c := range s.StationCapacity {
		if c < 0 {
			return true
		}
	}
	return false
}

// AllArrived reports whether every group reached its destination.
func (s *State) AllArrived() bool { return s.ArrivedGroups.Len() == len(s.Groups) }

// TotalDelay sums the positive delays of all groups.
func (s *State) TotalDelay() int {
	total := 0
	for _, d := range s.Delays {
		if d > 0 {
			total += d
		}
	}
	return total
}

// TrainMove returns the move train t performed at this step.
func (s *State) TrainMove(t network.TrainID) (Move, bool) {
	for _, m := range s.Moves {
		if m.Kind != KindNone && m.Train == t {
			return m, true
		}
	}
	return NoMove, false
}

// GroupMove returns the board or detrain involving group g at this step.
func (s *State) GroupMove(g network.GroupID) (Move, bool) {
	for _, m := range s.Moves {
		if (m.Kind == KindBoard || m.Kind == KindDetrain) && m.Group == g {
			return m, true
		}
	}
	return NoMove, false
}

// Loaded reports whether train t carries at least one group.
func (s *State) Loaded(t network.TrainID) bool { return s.TrainGroups[t].Len() > 0 }

func (s *State) String() string {
	return fmt.Sprintf("t=%d moves=%d arrived=%d/%d delay=%d", s.T, len(s.Moves), s.ArrivedGroups.Len(), len(s.Groups), s.TotalDelay())
}
