// Package rules decides which of two candidate moves a train should prefer
// without scoring whole schedules.
//
// A rule is declared for an unordered pair of move kinds, or for one kind
// against any other move. The engine keeps, for every ordered pair of
// kinds, the rules that apply in priority order and returns the first
// opinion. Mirrored pairs get the negated answer, so the effective order is
// antisymmetric. When every rule abstains the first move is not greater.
package rules
