package network

import "fmt"

// Chain builds a line of n stations where train i starts at station i and
// group i travels from station i to station i+1. It is used by benchmarks
// and load tests.
func Chain(n int) Definition {
	var def Definition
	for i := 0; i < n; i++ {
		def.Stations = append(def.Stations, Station{Name: fmt.Sprintf("S%d", i), Capacity: 3})
		def.Trains = append(def.Trains, Train{Name: fmt.Sprintf("T%d", i), Start: i, Speed: 1, Capacity: 10})
	}
	for i := 0; i+1 < n; i++ {
		def.Connections = append(def.Connections, Connection{
			Name: fmt.Sprintf("L%d", i), A: i, B: i + 1, Distance: 2, Capacity: 3,
		})
		def.Passengers = append(def.Passengers, Passenger{
			Name: fmt.Sprintf("P%d", i), Start: i, Destination: i + 1, Size: 2, Arrival: 10,
		})
	}
	return def
}
