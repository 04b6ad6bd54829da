package rules

import (
	"github.com/kilianp07/railplan/core/network"
	"github.com/kilianp07/railplan/core/sim"
)

const (
	board   = sim.KindBoard
	detrain = sim.KindDetrain
	depart  = sim.KindDepart
	start   = sim.KindStart
	none    = sim.KindNone
)

// Catalog returns the standard rules, highest priority first.
func Catalog() []Rule {
	var rules []Rule
	for _, group := range [][]Rule{
		avoidStationOverload(),
		detrainArrivedPassenger(),
		boardByArrival(),
		boardByDestination(),
		boardByTravelPath(),
		boardToEmptyTrain(),
		departToExactDestination(),
		departTowardsDestination(),
		departToWaitingPassengers(),
		freeUpSpace(),
		chooseTrainStart(),
	} {
		rules = append(rules, group...)
	}
	return rules
}

// WithWaitForConnection inserts a rule that holds a loaded train back when
// its departure is worse than the best incident connection by more than
// threshold, relative to that best connection. It is placed just before the
// destination-seeking departure rules.
func WithWaitForConnection(catalog []Rule, threshold float64) []Rule {
	out := make([]Rule, 0, len(catalog)+1)
	inserted := false
	for _, r := range catalog {
		if !inserted && r.Name == "depart-to-exact-destination" {
			out = append(out, waitForFullConnection(threshold))
			inserted = true
		}
		out = append(out, r)
	}
	if !inserted {
		out = append(out, waitForFullConnection(threshold))
	}
	return out
}

// avoidStationOverload rejects departures and starts towards stations that
// will be full when the train gets there and favours leaving a station that
// is about to overflow.
func avoidStationOverload() []Rule {
	return []Rule{
		Any("avoid-station-overload", depart, func(m sim.Move, s *sim.State) Verdict {
			net := s.Network()
			arrival := s.T + net.TravelTime(m.Train, m.Connection)
			if s.EstimatedCapacity(arrival, m.To) <= 0 {
				return NotGreater
			}
			if s.EstimatedCapacity(s.T+1, m.From) < 0 {
				return Greater
			}
			return Abstain
		}),
		Any("avoid-station-overload", start, func(m sim.Move, s *sim.State) Verdict {
			if s.EstimatedCapacity(s.Network().Horizon, m.Station) <= 0 {
				return NotGreater
			}
			return Abstain
		}),
	}
}

func detrainArrivedPassenger() []Rule {
	return []Rule{
		Any("detrain-arrived-passenger", detrain, func(m sim.Move, s *sim.State) Verdict {
			if m.Station == s.Network().Passengers[m.Group].Destination {
				return Greater
			}
			return Abstain
		}),
	}
}

func boardByArrival() []Rule {
	return []Rule{
		Pair("board-by-arrival", board, board, func(a, b sim.Move, s *sim.State) Verdict {
			ps := s.Network().Passengers
			return compareInts(ps[b.Group].Arrival, ps[a.Group].Arrival)
		}),
	}
}

func boardByDestination() []Rule {
	return []Rule{
		Any("board-by-destination", board, func(m sim.Move, s *sim.State) Verdict {
			ps := s.Network().Passengers
			dest := ps[m.Group].Destination
			for _, g := range s.TrainGroups[m.Train] {
				if ps[g].Destination == dest {
					return Greater
				}
			}
			return Abstain
		}),
	}
}

// boardByTravelPath favours a group whose route passes through the
// destination of a group already aboard, or the other way round.
func boardByTravelPath() []Rule {
	overlaps := func(a, _ sim.Move, s *sim.State) Verdict {
		net := s.Network()
		dest := net.Passengers[a.Group].Destination
		route := net.Path(a.Station, dest)
		for _, g := range s.TrainGroups[a.Train] {
			other := net.Passengers[g].Destination
			if route.Contains(other) || net.Path(a.Station, other).Contains(dest) {
				return Greater
			}
		}
		return Abstain
	}
	return []Rule{
		Pair("board-by-travel-path", board, depart, overlaps),
		Pair("board-by-travel-path", board, none, overlaps),
	}
}

func boardToEmptyTrain() []Rule {
	empty := func(a, _ sim.Move, s *sim.State) Verdict {
		if !s.Loaded(a.Train) {
			return Greater
		}
		return Abstain
	}
	return []Rule{
		Pair("board-to-empty-train", board, depart, empty),
		Pair("board-to-empty-train", board, none, empty),
	}
}

func departToExactDestination() []Rule {
	return []Rule{
		Pair("depart-to-exact-destination", depart, depart, func(a, b sim.Move, s *sim.State) Verdict {
			ea, eb := servesDestination(a, s), servesDestination(b, s)
			switch {
			case ea && !eb:
				return Greater
			case eb && !ea:
				return NotGreater
			default:
				return Abstain
			}
		}),
		Pair("depart-to-exact-destination", depart, none, func(a, _ sim.Move, s *sim.State) Verdict {
			if servesDestination(a, s) {
				return Greater
			}
			return Abstain
		}),
	}
}

// departTowardsDestination compares departures by the summed shortest
// distance from the next station to every destination aboard.
func departTowardsDestination() []Rule {
	return []Rule{
		Pair("depart-towards-destination", depart, depart, func(a, b sim.Move, s *sim.State) Verdict {
			if !s.Loaded(a.Train) || !s.Loaded(b.Train) {
				return Abstain
			}
			return compareFloats(remaining(b.Train, b.To, s), remaining(a.Train, a.To, s))
		}),
		Pair("depart-towards-destination", depart, none, func(a, _ sim.Move, s *sim.State) Verdict {
			if !s.Loaded(a.Train) {
				return Abstain
			}
			if remaining(a.Train, a.To, s) < remaining(a.Train, a.From, s) {
				return Greater
			}
			return Abstain
		}),
	}
}

// departToWaitingPassengers sends an empty train with nothing to pick up
// where it stands towards the nearest waiting group.
func departToWaitingPassengers() []Rule {
	return []Rule{
		Pair("depart-to-waiting-passengers", depart, depart, func(a, b sim.Move, s *sim.State) Verdict {
			if !idleHere(a, s) || !idleHere(b, s) {
				return Abstain
			}
			da, oka := nearestWaiting(a, s)
			db, okb := nearestWaiting(b, s)
			if !oka || !okb {
				return Abstain
			}
			return compareFloats(db, da)
		}),
		Pair("depart-to-waiting-passengers", depart, none, func(a, _ sim.Move, s *sim.State) Verdict {
			if !idleHere(a, s) {
				return Abstain
			}
			if _, ok := nearestWaiting(a, s); ok {
				return Greater
			}
			return Abstain
		}),
	}
}

// freeUpSpace moves a train out of a full station nobody waits at, towards
// the neighbour with the most room.
func freeUpSpace() []Rule {
	return []Rule{
		Pair("free-up-space", depart, none, func(a, _ sim.Move, s *sim.State) Verdict {
			if s.StationCapacity[a.From] <= 0 && s.StationGroups[a.From].Len() == 0 {
				return Greater
			}
			return Abstain
		}),
		Pair("free-up-space", depart, depart, func(a, b sim.Move, s *sim.State) Verdict {
			return compareInts(s.StationCapacity[a.To], s.StationCapacity[b.To])
		}),
	}
}

// chooseTrainStart places a train where a group fits, preferring stations
// whose fitting groups have the lowest summed required arrival.
func chooseTrainStart() []Rule {
	return []Rule{
		Pair("choose-train-start", start, none, func(a, _ sim.Move, s *sim.State) Verdict {
			if _, n := fittingArrivals(a, s); n > 0 {
				return Greater
			}
			return Abstain
		}),
		Pair("choose-train-start", start, start, func(a, b sim.Move, s *sim.State) Verdict {
			sa, na := fittingArrivals(a, s)
			sb, nb := fittingArrivals(b, s)
			switch {
			case na > 0 && nb == 0:
				return Greater
			case nb > 0 && na == 0:
				return NotGreater
			case na == 0 && nb == 0:
				return Abstain
			}
			return compareInts(sb, sa)
		}),
	}
}

func waitForFullConnection(threshold float64) Rule {
	return Pair("wait-for-full-connection", depart, none, func(a, _ sim.Move, s *sim.State) Verdict {
		if !s.Loaded(a.Train) {
			return Abstain
		}
		net := s.Network()
		chosen := remaining(a.Train, a.To, s)
		best := chosen
		for _, c := range net.StationConnections[a.From] {
			if d := remaining(a.Train, net.Destination(a.From, c), s); d < best {
				best = d
			}
		}
		delta := chosen - best
		if delta <= 0 {
			return Abstain
		}
		if best == 0 || delta/best > threshold {
			return NotGreater
		}
		return Abstain
	})
}

// compareInts is Greater when x > y, NotGreater when x < y.
func compareInts(x, y int) Verdict {
	if x == y {
		return Abstain
	}
	return verdict(x > y)
}

// compareFloats is Greater when x > y, NotGreater when x < y.
func compareFloats(x, y float64) Verdict {
	if x == y {
		return Abstain
	}
	return verdict(x > y)
}

func servesDestination(m sim.Move, s *sim.State) bool {
	ps := s.Network().Passengers
	for _, g := range s.TrainGroups[m.Train] {
		if ps[g].Destination == m.To {
			return true
		}
	}
	return false
}

// remaining sums the shortest distances from st to every destination aboard t.
func remaining(t network.TrainID, st network.StationID, s *sim.State) float64 {
	net := s.Network()
	total := 0.0
	for _, g := range s.TrainGroups[t] {
		total += net.Distance(st, net.Passengers[g].Destination)
	}
	return total
}

// idleHere reports whether the departing train is empty and no group it
// could carry waits at its current station.
func idleHere(m sim.Move, s *sim.State) bool {
	return !s.Loaded(m.Train) && !anyFits(s.StationGroups[m.From], m.Train, s)
}

// nearestWaiting is the shortest distance from the departure's next station
// to a station other than its origin where a group the train can carry waits.
func nearestWaiting(m sim.Move, s *sim.State) (float64, bool) {
	net := s.Network()
	best, found := 0.0, false
	for st, groups := range s.StationGroups {
		if st == m.From || !anyFits(groups, m.Train, s) {
			continue
		}
		p := net.Path(m.To, st)
		if !p.Reachable() {
			continue
		}
		if !found || p.Distance < best {
			best, found = p.Distance, true
		}
	}
	return best, found
}

func anyFits(groups sim.IDSet, t network.TrainID, s *sim.State) bool {
	ps := s.Network().Passengers
	for _, g := range groups {
		if ps[g].Size <= s.TrainCapacity[t] {
			return true
		}
	}
	return false
}

// fittingArrivals sums the required arrivals of the groups waiting at the
// start station that fit into the train, and counts them.
func fittingArrivals(m sim.Move, s *sim.State) (int, int) {
	ps := s.Network().Passengers
	sum, n := 0, 0
	for _, g := range s.StationGroups[m.Station] {
		if ps[g].Size <= s.TrainCapacity[m.Train] {
			sum += ps[g].Arrival
			n++
		}
	}
	return sum, n
}
