package sim

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/kilianp07/railplan/core/network"
)

// Kind enumerates the atomic actions.
type Kind uint8

const (
	KindNone Kind = iota
	KindBoard
	KindDetrain
	KindDepart
	KindStart

	// NumKinds is the number of move kinds.
	NumKinds
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindBoard:
		return "Board"
	case KindDetrain:
		return "Detrain"
	case KindDepart:
		return "Depart"
	case KindStart:
		return "Start"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Move is one action of a train (and possibly a passenger group) at the
// current time step. Board, Detrain and Start use Station; Depart uses From,
// To and Connection. Unused fields are zero so moves compare with ==.
type Move struct {
	Kind       Kind
	Train      network.TrainID
	Group      network.GroupID
	Station    network.StationID
	From       network.StationID
	To         network.StationID
	Connection network.ConnectionID
}

// NoMove is the None sentinel.
var NoMove = Move{}

// Board loads group g into train t at station s.
func Board(t network.TrainID, g network.GroupID, s network.StationID) Move {
	return Move{Kind: KindBoard, Train: t, Group: g, Station: s}
}

// Detrain unloads group g from train t at station s.
func Detrain(t network.TrainID, g network.GroupID, s network.StationID) Move {
	return Move{Kind: KindDetrain, Train: t, Group: g, Station: s}
}

// Depart sends train t from one station to another over connection c.
func Depart(t network.TrainID, from, to network.StationID, c network.ConnectionID) Move {
	return Move{Kind: KindDepart, Train: t, From: from, To: to, Connection: c}
}

// Start places an unplaced train t at station s.
func Start(t network.TrainID, s network.StationID) Move {
	return Move{Kind: KindStart, Train: t, Station: s}
}

// IsNone reports whether m is the None sentinel.
func (m Move) IsNone() bool { return m.Kind == KindNone }

// Hash returns a stable hash of the move.
func (m Move) Hash() uint64 {
	var buf [49]byte
	return xxhash.Sum64(m.appendTo(buf[:0]))
}

func (m Move) appendTo(b []byte) []byte {
	b = append(b, byte(m.Kind))
	for _, v := range [...]int{m.Train, m.Group, m.Station, m.From, m.To, m.Connection} {
		b = binary.LittleEndian.AppendUint64(b, uint64(v))
	}
	return b
}

// Describe renders the move with the names from net.
func (m Move) Describe(net *network.Network) string {
	switch m.Kind {
	case KindBoard:
		return fmt.Sprintf("Board %s on %s at %s", net.Passengers[m.Group].Name, net.Trains[m.Train].Name, net.Stations[m.Station].Name)
	case KindDetrain:
		return fmt.Sprintf("Detrain %s from %s at %s", net.Passengers[m.Group].Name, net.Trains[m.Train].Name, net.Stations[m.Station].Name)
	case KindDepart:
		return fmt.Sprintf("Depart %s from %s to %s via %s", net.Trains[m.Train].Name,
			net.Stations[m.From].Name, net.Stations[m.To].Name, net.Connections[m.Connection].Name)
	case KindStart:
		return fmt.Sprintf("Start %s at %s", net.Trains[m.Train].Name, net.Stations[m.Station].Name)
	default:
		return "None"
	}
}
