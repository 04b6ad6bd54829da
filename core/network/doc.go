// Package network holds the static railway model: stations, connections,
// trains and passenger groups, together with the all-pairs shortest path
// table and the constants derived from them (latest required arrival,
// search horizon and the number of trains the search moves).
//
// A Network is built once with New and never mutated afterwards, so it can
// be shared freely between simulation states and concurrent searches.
package network
