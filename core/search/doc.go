// Package search builds train schedules with a tabu search.
//
// A Driver extends a schedule one time step at a time. For every used
// train it tries the legal moves in random order, skips those leading to a
// remembered state and keeps the one the rule engine prefers. A finished
// attempt is scored by its total delay; the best schedule is kept and cut
// at a random step to start the next attempt from there.
package search
