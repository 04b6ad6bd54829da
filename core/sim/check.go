package sim

import (
	"errors"
	"fmt"
)

// Check verifies that the indexes agree with the group locations and that
// every capacity plus its current occupants equals the declared capacity.
func (s *State) Check() error {
	var errs []error
	net := s.net

	standing := make([]int, len(net.Stations))
	moving := make([]int, len(net.Connections))
	for t, loc := range s.Trains {
		switch loc.Place {
		case AtStation:
			standing[loc.Station]++
		case OnConnection:
			moving[loc.Connection]++
		}
		load := 0
		for _, g := range s.TrainGroups[t] {
			load += net.Passengers[g].Size
		}
		if s.TrainCapacity[t]+load != net.Trains[t].Capacity {
			errs = append(errs, fmt.Errorf("train %d: capacity %d with load %d, declared %d", t, s.TrainCapacity[t], load, net.Trains[t].Capacity))
		}
	}
	for st, c := range s.StationCapacity {
		if c+standing[st] != net.Stations[st].Capacity {
			errs = append(errs, fmt.Errorf("station %d: capacity %d with %d trains, declared %d", st, c, standing[st], net.Stations[st].Capacity))
		}
	}
	for id, c := range s.ConnectionCapacity {
		if c+moving[id] != net.Connections[id].Capacity {
			errs = append(errs, fmt.Errorf("connection %d: capacity %d with %d trains, declared %d", id, c, moving[id], net.Connections[id].Capacity))
		}
	}

	for g, loc := range s.Groups {
		members := 0
		for st := range s.StationGroups {
			if s.StationGroups[st].Contains(g) {
				members++
				if loc.Place != Waiting || loc.Station != st {
					errs = append(errs, fmt.Errorf("group %d: indexed at station %d but located %+v", g, st, loc))
				}
			}
		}
		for t := range s.TrainGroups {
			if s.TrainGroups[t].Contains(g) {
				members++
				if loc.Place != Aboard || loc.Train != t {
					errs = append(errs, fmt.Errorf("group %d: indexed on train %d but located %+v", g, t, loc))
				}
			}
		}
		if s.ArrivedGroups.Contains(g) {
			members++
			if loc.Place != Arrived {
				errs = append(errs, fmt.Errorf("group %d: indexed as arrived but located %+v", g, loc))
			}
		}
		if members != 1 {
			errs = append(errs, fmt.Errorf("group %d: present in %d indexes", g, members))
		}
	}
	return errors.Join(errs...)
}
