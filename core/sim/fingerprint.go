package sim

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the time step, every train and group location and the
// applied moves. Capacities and indexes follow from those fields and are
// left out.
func (s *State) Fingerprint() uint64 {
	buf := make([]byte, 0, 8+len(s.Trains)*25+len(s.Groups)*17+len(s.Moves)*49)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.T))
	for _, loc := range s.Trains {
		buf = append(buf, byte(loc.Place))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(loc.Station))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(loc.Connection))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(loc.Since))
	}
	for _, loc := range s.Groups {
		buf = append(buf, byte(loc.Place))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(loc.Station))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(loc.Train))
	}
	for _, m := range s.Moves {
		buf = m.appendTo(buf)
	}
	return xxhash.Sum64(buf)
}
