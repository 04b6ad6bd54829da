package sim

import "fmt"

// Push applies m and records it in Moves.
func (s *State) Push(m Move) {
	s.apply(m, true)
	s.Moves = append(s.Moves, m)
}

// Pop reverts the last applied move and returns it.
func (s *State) Pop() Move {
	if len(s.Moves) == 0 {
		panic("sim: pop on a state without moves")
	}
	m := s.Moves[len(s.Moves)-1]
	s.Moves = s.Moves[:len(s.Moves)-1]
	if len(s.Moves) == 0 {
		s.Moves = nil
	}
	s.apply(m, false)
	return m
}

// apply holds both directions of every move so that the inverse is the
// mirror image of the forward effect. Capacity deltas flip sign with the
// direction; location changes swap their before and after values.
func (s *State) apply(m Move, forward bool) {
	sign := 1
	if !forward {
		sign = -1
	}
	switch m.Kind {
	case KindNone:
		return
	case KindBoard:
		size := s.net.Passengers[m.Group].Size
		s.TrainCapacity[m.Train] -= sign * size
		waiting := GroupLocation{Place: Waiting, Station: m.Station}
		aboard := GroupLocation{Place: Aboard, Train: m.Train}
		if forward {
			s.moveGroup(m, waiting, aboard)
		} else {
			s.moveGroup(m, aboard, waiting)
		}
	case KindDetrain:
		size := s.net.Passengers[m.Group].Size
		s.TrainCapacity[m.Train] += sign * size
		aboard := GroupLocation{Place: Aboard, Train: m.Train}
		landed := GroupLocation{Place: Waiting, Station: m.Station}
		if m.Station == s.net.Passengers[m.Group].Destination {
			landed = GroupLocation{Place: Arrived}
		}
		if forward {
			s.moveGroup(m, aboard, landed)
		} else {
			s.moveGroup(m, landed, aboard)
		}
	case KindDepart:
		s.StationCapacity[m.From] += sign
		s.ConnectionCapacity[m.Connection] -= sign
		standing := TrainLocation{Place: AtStation, Station: m.From}
		moving := TrainLocation{Place: OnConnection, Station: m.To, Connection: m.Connection, Since: s.T}
		if forward {
			s.moveTrain(m, standing, moving)
		} else {
			s.moveTrain(m, moving, standing)
		}
	case KindStart:
		s.StationCapacity[m.Station] -= sign
		placed := TrainLocation{Place: AtStation, Station: m.Station}
		if forward {
			s.moveTrain(m, TrainLocation{Place: NotStarted}, placed)
		} else {
			s.moveTrain(m, placed, TrainLocation{Place: NotStarted})
		}
	default:
		panic(fmt.Sprintf("sim: unknown move kind %d", m.Kind))
	}
	if s.TrainCapacity[m.Train] < 0 {
		panic(fmt.Sprintf("sim: train %d capacity %d after %s", m.Train, s.TrainCapacity[m.Train], m.Kind))
	}
}

func (s *State) moveTrain(m Move, from, to TrainLocation) {
	if s.Trains[m.Train] != from {
		panic(fmt.Sprintf("sim: %s train %d: location %+v, expected %+v", m.Kind, m.Train, s.Trains[m.Train], from))
	}
	s.Trains[m.Train] = to
}

// moveGroup relocates a group and keeps the station, train and arrival
// indexes and the delay vector in step with its location.
func (s *State) moveGroup(m Move, from, to GroupLocation) {
	g := m.Group
	if s.Groups[g] != from {
		panic(fmt.Sprintf("sim: %s group %d: location %+v, expected %+v", m.Kind, g, s.Groups[g], from))
	}
	if !s.index(from).Remove(g) {
		panic(fmt.Sprintf("sim: %s group %d missing from its index", m.Kind, g))
	}
	s.index(to).Insert(g)
	s.Groups[g] = to
	switch {
	case to.Place == Arrived:
		s.Delays[g] = s.T - s.net.Passengers[g].Arrival
	case from.Place == Arrived:
		s.Delays[g] = s.net.UnarrivedDelay()
	}
}

func (s *State) index(loc GroupLocation) *IDSet {
	switch loc.Place {
	case Waiting:
		return &s.StationGroups[loc.Station]
	case Aboard:
		return &s.TrainGroups[loc.Train]
	default:
		return &s.ArrivedGroups
	}
}
