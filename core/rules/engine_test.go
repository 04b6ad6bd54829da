package rules

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/railplan/core/network"
	"github.com/kilianp07/railplan/core/sim"
)

func mustNetwork(t *testing.T, def network.Definition) *network.Network {
	t.Helper()
	n, err := network.New(def, network.Options{})
	require.NoError(t, err)
	return n
}

// line is A - B - C with one train at A.
func line(t *testing.T) *network.Network {
	return mustNetwork(t, network.Definition{
		Stations: []network.Station{{Name: "A", Capacity: 2}, {Name: "B", Capacity: 2}, {Name: "C", Capacity: 2}},
		Connections: []network.Connection{
			{Name: "AB", A: 0, B: 1, Distance: 1, Capacity: 2},
			{Name: "BC", A: 1, B: 2, Distance: 1, Capacity: 2},
		},
		Trains: []network.Train{{Name: "T0", Start: 0, Speed: 1, Capacity: 4}, {Name: "T1", Start: network.AnyStation, Speed: 1, Capacity: 4}},
		Passengers: []network.Passenger{
			{Name: "P0", Start: 0, Destination: 2, Size: 1, Arrival: 5},
			{Name: "P1", Start: 0, Destination: 1, Size: 1, Arrival: 3},
			{Name: "P2", Start: 2, Destination: 0, Size: 1, Arrival: 9},
		},
	})
}

func TestEngineDispatch(t *testing.T) {
	calls := 0
	e := NewEngine([]Rule{
		Pair("board-vs-depart", sim.KindBoard, sim.KindDepart, func(a, b sim.Move, _ *sim.State) Verdict {
			calls++
			assert.Equal(t, sim.KindBoard, a.Kind)
			assert.Equal(t, sim.KindDepart, b.Kind)
			return Greater
		}),
	})
	n := line(t)
	s := sim.NewState(n)
	bm, dm := sim.Board(0, 0, 0), sim.Depart(0, 0, 1, 0)
	assert.True(t, e.IsGreater(bm, dm, s))
	assert.False(t, e.IsGreater(dm, bm, s))
	assert.Equal(t, 2, calls)

	v, name := e.Decide(dm, bm, s)
	assert.Equal(t, NotGreater, v)
	assert.Equal(t, "board-vs-depart", name)

	v, name = e.Decide(bm, sim.NoMove, s)
	assert.Equal(t, Abstain, v)
	assert.Empty(t, name)
	assert.False(t, e.IsGreater(bm, sim.NoMove, s), "default is not greater")
}

func TestEnginePriority(t *testing.T) {
	e := NewEngine([]Rule{
		Pair("first", sim.KindDepart, sim.KindNone, func(sim.Move, sim.Move, *sim.State) Verdict { return Abstain }),
		Pair("second", sim.KindDepart, sim.KindNone, func(sim.Move, sim.Move, *sim.State) Verdict { return NotGreater }),
		Pair("third", sim.KindDepart, sim.KindNone, func(sim.Move, sim.Move, *sim.State) Verdict { return Greater }),
	})
	s := sim.NewState(line(t))
	v, name := e.Decide(sim.Depart(0, 0, 1, 0), sim.NoMove, s)
	assert.Equal(t, NotGreater, v)
	assert.Equal(t, "second", name)
}

func TestWildcardRule(t *testing.T) {
	e := NewEngine([]Rule{
		Any("start-only-at-b", sim.KindStart, func(m sim.Move, _ *sim.State) Verdict {
			if m.Station == 1 {
				return Greater
			}
			return NotGreater
		}),
	})
	s := sim.NewState(line(t))
	atA, atB := sim.Start(1, 0), sim.Start(1, 1)
	assert.True(t, e.IsGreater(atB, sim.NoMove, s))
	assert.False(t, e.IsGreater(sim.NoMove, atB, s))
	assert.False(t, e.IsGreater(atA, sim.NoMove, s))
	assert.True(t, e.IsGreater(sim.NoMove, atA, s))
	assert.True(t, e.IsGreater(atB, atA, s))
	assert.False(t, e.IsGreater(atA, atB, s))

	v, _ := e.Decide(atB, sim.Start(1, 1), s)
	assert.Equal(t, Abstain, v, "equal opinions on both sides abstain")
}

func TestVerdictNegate(t *testing.T) {
	assert.Equal(t, NotGreater, Greater.Negate())
	assert.Equal(t, Greater, NotGreater.Negate())
	assert.Equal(t, Abstain, Abstain.Negate())
	assert.Equal(t, "greater", Greater.String())
}

// TestCatalogAntisymmetry walks random states and checks that the effective
// order never prefers both a over b and b over a.
func TestCatalogAntisymmetry(t *testing.T) {
	e := Default()
	rng := rand.New(rand.NewSource(3))
	def := network.Chain(6)
	def.Trains[2].Start = network.AnyStation
	nets := []*network.Network{line(t), mustNetwork(t, def)}
	for _, n := range nets {
		s := sim.NewState(n)
		for step := 0; step < 12; step++ {
			for tr := range n.Trains {
				moves := append(s.LegalMoves(tr), sim.NoMove)
				for _, a := range moves {
					for _, b := range moves {
						va, ra := e.Decide(a, b, s)
						vb, rb := e.Decide(b, a, s)
						if va == Abstain || vb == Abstain {
							continue
						}
						assert.Equal(t, va, vb.Negate(), "%s (%s) vs %s (%s)", a.Describe(n), ra, b.Describe(n), rb)
						assert.False(t, e.IsGreater(a, b, s) && e.IsGreater(b, a, s))
					}
				}
				if legal := s.LegalMoves(tr); len(legal) > 0 {
					s.Push(legal[rng.Intn(len(legal))])
				}
			}
			s = s.Next()
		}
	}
}

func TestCatalogOrder(t *testing.T) {
	var names []string
	for _, r := range Catalog() {
		if len(names) == 0 || names[len(names)-1] != r.Name {
			names = append(names, r.Name)
		}
	}
	assert.Equal(t, []string{
		"avoid-station-overload",
		"detrain-arrived-passenger",
		"board-by-arrival",
		"board-by-destination",
		"board-by-travel-path",
		"board-to-empty-train",
		"depart-to-exact-destination",
		"depart-towards-destination",
		"depart-to-waiting-passengers",
		"free-up-space",
		"choose-train-start",
	}, names)

	withWait := WithWaitForConnection(Catalog(), 0.7)
	require.Len(t, withWait, len(Catalog())+1)
	for i, r := range withWait {
		if r.Name == "wait-for-full-connection" {
			assert.Equal(t, "depart-to-exact-destination", withWait[i+1].Name)
		}
	}
}
