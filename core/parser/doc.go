// Package parser reads network definitions.
//
// Two encodings are supported. The text format is a list of blocks:
//
//	[Stations]
//	A 2
//	[Lines]
//	AB A B 3.5 1
//	[Trains]
//	T1 * 1.5 4
//	[Passengers]
//	P1 A B 2 10
//
// Lines starting with # are comments, blocks may repeat and may refer to
// stations declared further down. A train starting at * may be placed at
// any station. The structured format carries the same records as YAML or
// JSON documents with stations, lines, trains and passengers lists.
package parser
