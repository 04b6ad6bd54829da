// Package mqtt defines how finished schedules are announced to other
// systems over a message broker.
package mqtt

import (
	"time"

	"github.com/kilianp07/railplan/core/timetable"
)

// Report is the message published once a search finishes.
type Report struct {
	MessageID  string              `json:"message_id"`
	RunID      string              `json:"run_id"`
	Network    string              `json:"network"`
	Timestamp  int64               `json:"timestamp"`
	Seed       int64               `json:"seed"`
	TotalDelay int                 `json:"total_delay"`
	Arrived    int                 `json:"arrived"`
	Passengers int                 `json:"passengers"`
	Legal      bool                `json:"legal"`
	ElapsedMS  int64               `json:"elapsed_ms"`
	Timetable  timetable.Timetable `json:"timetable"`
}

// Publisher sends reports to a broker.
type Publisher interface {
	// Publish sends the report and returns the message identifier used to
	// track its acknowledgment.
	Publish(report Report) (messageID string, err error)

	// WaitForAck waits for an acknowledgment of the given message or until
	// the timeout expires.
	WaitForAck(messageID string, timeout time.Duration) (bool, error)
}
