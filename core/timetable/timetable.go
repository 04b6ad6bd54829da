// Package timetable turns a schedule into per-train and per-passenger
// event lists and renders them.
package timetable

import (
	"github.com/kilianp07/railplan/core/network"
	"github.com/kilianp07/railplan/core/search"
	"github.com/kilianp07/railplan/core/sim"
)

// Event is one timed action of a train or passenger group.
type Event struct {
	Time int `json:"time"`
	// Action is Start, Depart, Board or Detrain.
	Action string `json:"action"`
	// Target is the station started at, the connection taken or the train
	// boarded. It is empty for a detrain.
	Target string `json:"target,omitempty"`
}

// Schedule is the event list of one train or passenger group.
type Schedule struct {
	Name   string  `json:"name"`
	Events []Event `json:"events"`
}

// Timetable lists every train and every passenger group in network order,
// including those without events.
type Timetable struct {
	Trains     []Schedule `json:"trains"`
	Passengers []Schedule `json:"passengers"`
}

// Build extracts the events of sol.
func Build(net *network.Network, sol search.Solution) Timetable {
	tt := Timetable{
		Trains:     make([]Schedule, len(net.Trains)),
		Passengers: make([]Schedule, len(net.Passengers)),
	}
	for i, t := range net.Trains {
		tt.Trains[i].Name = t.Name
	}
	for i, p := range net.Passengers {
		tt.Passengers[i].Name = p.Name
	}
	for _, st := range sol {
		for _, m := range st.Moves {
			switch m.Kind {
			case sim.KindStart:
				tt.Trains[m.Train].add(st.T, "Start", net.Stations[m.Station].Name)
			case sim.KindDepart:
				tt.Trains[m.Train].add(st.T, "Depart", net.Connections[m.Connection].Name)
			case sim.KindBoard:
				tt.Passengers[m.Group].add(st.T, "Board", net.Trains[m.Train].Name)
			case sim.KindDetrain:
				tt.Passengers[m.Group].add(st.T, "Detrain", "")
			}
		}
	}
	return tt
}

func (s *Schedule) add(t int, action, target string) {
	s.Events = append(s.Events, Event{Time: t, Action: action, Target: target})
}
