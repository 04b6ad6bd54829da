package network

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ring() Definition {
	return Definition{
		Stations: []Station{{Name: "A", Capacity: 2}, {Name: "B", Capacity: 2}, {Name: "C", Capacity: 2}, {Name: "D", Capacity: 2}},
		Connections: []Connection{
			{Name: "AB", A: 0, B: 1, Distance: 1, Capacity: 1},
			{Name: "BC", A: 1, B: 2, Distance: 5, Capacity: 1},
			{Name: "CD", A: 2, B: 3, Distance: 1, Capacity: 1},
			{Name: "DA", A: 3, B: 0, Distance: 2, Capacity: 1},
		},
		Trains:     []Train{{Name: "T0", Start: 0, Speed: 1, Capacity: 5}},
		Passengers: []Passenger{{Name: "P0", Start: 0, Destination: 2, Size: 1, Arrival: 6}},
	}
}

func TestShortestPathsRing(t *testing.T) {
	n, err := New(ring(), Options{})
	require.NoError(t, err)

	// A->C: A-D-C = 3 beats A-B-C = 6.
	p := n.Path(0, 2)
	assert.Equal(t, 3.0, p.Distance)
	assert.Equal(t, []StationID{0, 3, 2}, p.Stations)

	// B->D: B-A-D = 3 beats B-C-D = 6.
	assert.Equal(t, 3.0, n.Distance(1, 3))
	assert.Equal(t, []StationID{1, 0, 3}, n.Path(1, 3).Stations)

	for from := range n.Stations {
		for to := range n.Stations {
			p := n.Path(from, to)
			if from == to {
				assert.Zero(t, p.Distance)
				assert.Empty(t, p.Stations)
				continue
			}
			require.True(t, p.Reachable())
			assert.Equal(t, from, p.Stations[0])
			assert.Equal(t, to, p.Stations[len(p.Stations)-1])
			var sum float64
			for i := 0; i+1 < len(p.Stations); i++ {
				d, ok := connectionBetween(n, p.Stations[i], p.Stations[i+1])
				require.True(t, ok, "path %v uses missing connection", p.Stations)
				sum += d
			}
			assert.Equal(t, p.Distance, sum)
		}
	}
}

func connectionBetween(n *Network, a, b StationID) (float64, bool) {
	best, found := math.Inf(1), false
	for _, c := range n.Connections {
		if (c.A == a && c.B == b) || (c.A == b && c.B == a) {
			found = true
			best = math.Min(best, c.Distance)
		}
	}
	return best, found
}

func TestParallelConnectionsAndSelfLoops(t *testing.T) {
	def := Definition{
		Stations: []Station{{Name: "A", Capacity: 1}, {Name: "B", Capacity: 1}, {Name: "C", Capacity: 1}},
		Connections: []Connection{
			{Name: "slow", A: 0, B: 1, Distance: 9, Capacity: 1},
			{Name: "fast", A: 1, B: 0, Distance: 4, Capacity: 1},
			{Name: "loop", A: 1, B: 1, Distance: 1, Capacity: 1},
		},
	}
	n, err := New(def, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4.0, n.Distance(0, 1))
	assert.False(t, n.Path(0, 2).Reachable())
	assert.Empty(t, n.Path(0, 2).Stations)
	assert.Equal(t, []ConnectionID{0, 1, 2}, n.StationConnections[1])
	assert.Equal(t, 4.0, n.MaxDistance)

	single, err := New(Definition{Stations: []Station{{Name: "A", Capacity: 1}}}, Options{})
	require.NoError(t, err)
	assert.Zero(t, single.NormalizedDistance(3))
}

func TestDerivedConstants(t *testing.T) {
	n, err := New(ring(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 6, n.MaxArrival)
	// B->C: B-A-D-C = 4 beats the direct BC link of 5.
	assert.Equal(t, 4.0, n.MaxDistance)
	assert.Equal(t, 1, n.UsedTrains)
	assert.Equal(t, 6+4+2, n.Horizon)
	assert.Equal(t, n.Horizon+1, n.UnarrivedDelay())

	assert.Equal(t, 0.75, n.NormalizedDistance(n.Distance(0, 2)))
	assert.Equal(t, 1.0, n.NormalizedDistance(n.MaxDistance))

	forced, err := New(ring(), Options{Horizon: 40})
	require.NoError(t, err)
	assert.Equal(t, 40, forced.Horizon)
}

func TestUsedTrains(t *testing.T) {
	def := Chain(4)
	n, err := New(def, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, n.UsedTrains)
	assert.LessOrEqual(t, n.UsedTrains, len(n.Trains))

	n, err = New(def, Options{MaxTrains: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, n.UsedTrains)

	def.Passengers = nil
	n, err = New(def, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, n.UsedTrains)
}

func TestTravelTimeAndDestination(t *testing.T) {
	def := ring()
	def.Trains = append(def.Trains, Train{Name: "T1", Start: AnyStation, Speed: 2, Capacity: 1})
	n, err := New(def, Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, n.TravelTime(0, 1))
	assert.Equal(t, 3, n.TravelTime(1, 1))
	assert.Equal(t, 1, n.TravelTime(1, 0))
	assert.Equal(t, 3, n.Destination(0, 3))
	assert.Equal(t, 0, n.Destination(3, 3))
}

func TestValidate(t *testing.T) {
	cases := map[string]func(d *Definition){
		"no stations":      func(d *Definition) { d.Stations = nil },
		"negative station": func(d *Definition) { d.Stations[0].Capacity = -1 },
		"bad endpoint":     func(d *Definition) { d.Connections[0].B = 9 },
		"negative dist":    func(d *Definition) { d.Connections[0].Distance = -1 },
		"bad start":        func(d *Definition) { d.Trains[0].Start = 7 },
		"zero speed":       func(d *Definition) { d.Trains[0].Speed = 0 },
		"bad destination":  func(d *Definition) { d.Passengers[0].Destination = 4 },
		"empty group":      func(d *Definition) { d.Passengers[0].Size = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			def := ring()
			mutate(&def)
			_, err := New(def, Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidNetwork))
		})
	}
}
