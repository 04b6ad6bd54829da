package search

import "github.com/kilianp07/railplan/core/sim"

// Solution is a schedule: one state per simulated time step, in order.
type Solution []*sim.State

// Final returns the last state, or nil for an empty schedule.
func (s Solution) Final() *sim.State {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// TotalDelay is the summed positive delay of the final state. An empty
// schedule is infinitely bad.
func (s Solution) TotalDelay() int {
	f := s.Final()
	if f == nil {
		return maxScore
	}
	return f.TotalDelay()
}

// Arrived counts the groups that reached their destination.
func (s Solution) Arrived() int {
	f := s.Final()
	if f == nil {
		return 0
	}
	return f.ArrivedGroups.Len()
}

// Legal reports whether every group arrived and no station was ever
// overloaded.
func (s Solution) Legal() bool {
	f := s.Final()
	if f == nil || !f.AllArrived() {
		return false
	}
	for _, st := range s {
		if st.HasStationOverload() {
			return false
		}
	}
	return true
}

// Clone copies the slice. States are shared; they are never mutated once
// a later step has been built on top of them.
func (s Solution) Clone() Solution {
	if s == nil {
		return nil
	}
	return append(Solution(nil), s...)
}
