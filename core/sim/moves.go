package sim

import "github.com/kilianp07/railplan/core/network"

// LegalMoves lists the moves train t may perform at this step. An unplaced
// train may start at any station with room left. A standing train may board
// waiting groups that fit, detrain any group aboard or depart over any
// incident connection with room left, but only once time has started. A
// train in transit has no moves.
func (s *State) LegalMoves(t network.TrainID) []Move {
	loc := s.Trains[t]
	switch loc.Place {
	case NotStarted:
		var moves []Move
		for st, c := range s.StationCapacity {
			if c > 0 {
				moves = append(moves, Start(t, st))
			}
		}
		return moves
	case AtStation:
		if s.T == 0 {
			return nil
		}
		st := loc.Station
		moves := make([]Move, 0, s.StationGroups[st].Len()+s.TrainGroups[t].Len()+len(s.net.StationConnections[st]))
		for _, g := range s.StationGroups[st] {
			if s.net.Passengers[g].Size <= s.TrainCapacity[t] {
				moves = append(moves, Board(t, g, st))
			}
		}
		for _, g := range s.TrainGroups[t] {
			moves = append(moves, Detrain(t, g, st))
		}
		for _, c := range s.net.StationConnections[st] {
			if s.ConnectionCapacity[c] > 0 {
				moves = append(moves, Depart(t, st, s.net.Destination(st, c), c))
			}
		}
		return moves
	default:
		return nil
	}
}

// Moved reports whether train t already performed a move at this step.
func (s *State) Moved(t network.TrainID) bool {
	_, ok := s.TrainMove(t)
	return ok
}
