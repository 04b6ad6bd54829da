// Package export writes timetables for other tools.
package export

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/kilianp07/railplan/core/timetable"
)

// Record is one timetable event flattened for CSV output.
type Record struct {
	Time    int    `csv:"time"`
	Kind    string `csv:"kind"`
	Subject string `csv:"subject"`
	Action  string `csv:"action"`
	Target  string `csv:"target"`
}

// Records flattens tt ordered by time, trains before passengers within a
// step.
func Records(tt timetable.Timetable) []Record {
	var out []Record
	add := func(kind string, schedules []timetable.Schedule) {
		for _, s := range schedules {
			for _, e := range s.Events {
				out = append(out, Record{Time: e.Time, Kind: kind, Subject: s.Name, Action: e.Action, Target: e.Target})
			}
		}
	}
	add("train", tt.Trains)
	add("passenger", tt.Passengers)
	sortRecords(out)
	return out
}

// WriteJSON writes the timetable to w in JSON format.
func WriteJSON(w io.Writer, tt timetable.Timetable) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tt)
}

// WriteCSV writes one line per event with a time,kind,subject,action,target
// header.
func WriteCSV(w io.Writer, tt timetable.Timetable) error {
	records := Records(tt)
	if len(records) == 0 {
		_, err := io.WriteString(w, "time,kind,subject,action,target\n")
		return err
	}
	return gocsv.Marshal(records, w)
}

// ReadCSV reads records written by WriteCSV.
func ReadCSV(r io.Reader) ([]Record, error) {
	var records []Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, err
	}
	return records, nil
}
