package parser

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kilianp07/railplan/core/network"
)

// AnyStart marks a train that may start at any station.
const AnyStart = "*"

// Document is a network written with station names instead of indexes.
type Document struct {
	Stations   []StationRecord   `json:"stations" yaml:"stations"`
	Lines      []LineRecord      `json:"lines" yaml:"lines"`
	Trains     []TrainRecord     `json:"trains" yaml:"trains"`
	Passengers []PassengerRecord `json:"passengers" yaml:"passengers"`
}

type StationRecord struct {
	Name     string `json:"name" yaml:"name"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

type LineRecord struct {
	Name     string  `json:"name" yaml:"name"`
	From     string  `json:"from" yaml:"from"`
	To       string  `json:"to" yaml:"to"`
	Distance float64 `json:"distance" yaml:"distance"`
	Capacity int     `json:"capacity" yaml:"capacity"`
}

type TrainRecord struct {
	Name     string  `json:"name" yaml:"name"`
	Start    string  `json:"start" yaml:"start"`
	Speed    float64 `json:"speed" yaml:"speed"`
	Capacity int     `json:"capacity" yaml:"capacity"`
}

type PassengerRecord struct {
	Name    string `json:"name" yaml:"name"`
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	Size    int    `json:"size" yaml:"size"`
	Arrival int    `json:"arrival" yaml:"arrival"`
}

// Definition resolves station names. Trains are ordered by speed, fastest
// first, keeping the document order among equal speeds.
func (d Document) Definition() (network.Definition, error) {
	var def network.Definition
	ids := make(map[string]network.StationID, len(d.Stations))
	for _, s := range d.Stations {
		if _, dup := ids[s.Name]; dup {
			return def, fmt.Errorf("%w: duplicate station %q", ErrSyntax, s.Name)
		}
		ids[s.Name] = len(def.Stations)
		def.Stations = append(def.Stations, network.Station{Name: s.Name, Capacity: s.Capacity})
	}
	lookup := func(kind, owner, name string) (network.StationID, error) {
		id, ok := ids[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s %q refers to station %q", ErrUnknownStation, kind, owner, name)
		}
		return id, nil
	}

	for _, l := range d.Lines {
		a, err := lookup("line", l.Name, l.From)
		if err != nil {
			return def, err
		}
		b, err := lookup("line", l.Name, l.To)
		if err != nil {
			return def, err
		}
		def.Connections = append(def.Connections, network.Connection{Name: l.Name, A: a, B: b, Distance: l.Distance, Capacity: l.Capacity})
	}

	trains := slices.Clone(d.Trains)
	slices.SortStableFunc(trains, func(x, y TrainRecord) int { return cmp.Compare(y.Speed, x.Speed) })
	for _, t := range trains {
		start := network.AnyStation
		if t.Start != AnyStart && t.Start != "" {
			id, err := lookup("train", t.Name, t.Start)
			if err != nil {
				return def, err
			}
			start = id
		}
		def.Trains = append(def.Trains, network.Train{Name: t.Name, Start: start, Speed: t.Speed, Capacity: t.Capacity})
	}

	for _, p := range d.Passengers {
		from, err := lookup("passenger", p.Name, p.From)
		if err != nil {
			return def, err
		}
		to, err := lookup("passenger", p.Name, p.To)
		if err != nil {
			return def, err
		}
		def.Passengers = append(def.Passengers, network.Passenger{Name: p.Name, Start: from, Destination: to, Size: p.Size, Arrival: p.Arrival})
	}
	return def, nil
}

// FromDefinition writes def with station names.
func FromDefinition(def network.Definition) Document {
	var d Document
	name := func(id network.StationID) string { return def.Stations[id].Name }
	for _, s := range def.Stations {
		d.Stations = append(d.Stations, StationRecord{Name: s.Name, Capacity: s.Capacity})
	}
	for _, c := range def.Connections {
		d.Lines = append(d.Lines, LineRecord{Name: c.Name, From: name(c.A), To: name(c.B), Distance: c.Distance, Capacity: c.Capacity})
	}
	for _, t := range def.Trains {
		start := AnyStart
		if t.Start != network.AnyStation {
			start = name(t.Start)
		}
		d.Trains = append(d.Trains, TrainRecord{Name: t.Name, Start: start, Speed: t.Speed, Capacity: t.Capacity})
	}
	for _, p := range def.Passengers {
		d.Passengers = append(d.Passengers, PassengerRecord{Name: p.Name, From: name(p.Start), To: name(p.Destination), Size: p.Size, Arrival: p.Arrival})
	}
	return d
}
