package timetable

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/railplan/core/network"
	"github.com/kilianp07/railplan/core/search"
	"github.com/kilianp07/railplan/core/sim"
)

// scripted carries two groups from A to B on separate trains.
func scripted(t *testing.T) (*network.Network, search.Solution) {
	t.Helper()
	n, err := network.New(network.Definition{
		Stations:    []network.Station{{Name: "A", Capacity: 5}, {Name: "B", Capacity: 5}},
		Connections: []network.Connection{{Name: "AB", A: 0, B: 1, Distance: 2, Capacity: 3}},
		Trains: []network.Train{
			{Name: "T0", Start: 0, Speed: 1, Capacity: 1},
			{Name: "T1", Start: 0, Speed: 1, Capacity: 1},
			{Name: "Idle", Start: network.AnyStation, Speed: 1, Capacity: 1},
		},
		Passengers: []network.Passenger{
			{Name: "P0", Start: 0, Destination: 1, Size: 1, Arrival: 4},
			{Name: "P1", Start: 0, Destination: 1, Size: 1, Arrival: 4},
		},
	}, network.Options{})
	require.NoError(t, err)

	s0 := sim.NewState(n)
	s1 := s0.Next()
	s1.Push(sim.Board(0, 0, 0))
	s1.Push(sim.Board(1, 1, 0))
	s2 := s1.Next()
	s2.Push(sim.Depart(0, 0, 1, 0))
	s2.Push(sim.Depart(1, 0, 1, 0))
	s3 := s2.Next()
	s4 := s3.Next()
	s4.Push(sim.Detrain(0, 0, 1))
	s4.Push(sim.Detrain(1, 1, 1))
	require.True(t, s4.AllArrived())
	return n, search.Solution{s0, s1, s2, s3, s4}
}

func TestBuild(t *testing.T) {
	n, sol := scripted(t)
	tt := Build(n, sol)
	require.Len(t, tt.Trains, 3)
	require.Len(t, tt.Passengers, 2)
	assert.Equal(t, []Event{{Time: 2, Action: "Depart", Target: "AB"}}, tt.Trains[0].Events)
	assert.Empty(t, tt.Trains[2].Events)
	assert.Equal(t, []Event{{Time: 1, Action: "Board", Target: "T1"}, {Time: 4, Action: "Detrain"}}, tt.Passengers[1].Events)
}

func TestRender(t *testing.T) {
	n, sol := scripted(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(n, sol)))
	want := strings.Join([]string{
		"[Train:T0]", "2 Depart AB", "",
		"[Train:T1]", "2 Depart AB", "",
		"[Train:Idle]", "",
		"[Passenger:P0]", "1 Board T0", "4 Detrain", "",
		"[Passenger:P1]", "1 Board T1", "4 Detrain", "",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderVerbose(t *testing.T) {
	n, sol := scripted(t)
	var buf bytes.Buffer
	require.NoError(t, RenderVerbose(&buf, n, sol))
	out := buf.String()
	assert.Contains(t, out, "[Time:0]\n\n[Time:1]\nBoard P0 on T0 at A\nBoard P1 on T1 at A\n")
	assert.Contains(t, out, "[Time:3]\nT0 on AB at 50.00%\nT1 on AB at 50.00%\n")
	assert.Contains(t, out, "[Time:2]\nDepart T0 from A to B via AB\nDepart T1 from A to B via AB\n\n", "no progress on the departure step")
	assert.Contains(t, out, "Detrain P1 from T1 at B")
}

func TestSummary(t *testing.T) {
	n, sol := scripted(t)
	res := search.Result{Solution: sol, TotalDelay: 0, Arrived: 2, Legal: true, CheckedMoves: 12, Attempts: 1, Elapsed: 1500 * time.Millisecond}
	s := Summarize(n, res)
	assert.Equal(t, 2, s.Passengers)

	var buf bytes.Buffer
	written, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), written)
	out := buf.String()
	assert.Contains(t, out, "duration            1.500s\n")
	assert.Contains(t, out, "arrived passengers  2/2\n")
	assert.Contains(t, out, "legal               true\n")
}

func TestRenderVerboseUsesSpeed(t *testing.T) {
	n, err := network.New(network.Definition{
		Stations:    []network.Station{{Name: "A", Capacity: 5}, {Name: "B", Capacity: 5}},
		Connections: []network.Connection{{Name: "AB", A: 0, B: 1, Distance: 3, Capacity: 3}},
		Trains:      []network.Train{{Name: "T0", Start: 0, Speed: 2, Capacity: 1}},
		Passengers:  []network.Passenger{{Name: "P0", Start: 0, Destination: 1, Size: 1, Arrival: 4}},
	}, network.Options{})
	require.NoError(t, err)

	s0 := sim.NewState(n)
	s1 := s0.Next()
	s1.Push(sim.Depart(0, 0, 1, 0))
	s2 := s1.Next()

	var buf bytes.Buffer
	require.NoError(t, RenderVerbose(&buf, n, search.Solution{s0, s1, s2}))
	assert.Contains(t, buf.String(), "[Time:2]\nT0 on AB at 66.67%\n")
}
