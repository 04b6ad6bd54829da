// Package runlog keeps a history of finished searches.
package runlog

import (
	"context"
	"time"
)

// Record summarizes one search run.
type Record struct {
	RunID        string    `json:"run_id"`
	Timestamp    time.Time `json:"timestamp"`
	Network      string    `json:"network"`
	Seed         int64     `json:"seed"`
	Workers      int       `json:"workers"`
	BudgetMS     int64     `json:"budget_ms"`
	TotalDelay   int       `json:"total_delay"`
	Arrived      int       `json:"arrived"`
	Passengers   int       `json:"passengers"`
	Legal        bool      `json:"legal"`
	Attempts     int       `json:"attempts"`
	CheckedMoves int       `json:"checked_moves"`
	ElapsedMS    int64     `json:"elapsed_ms"`
}

// Query filters records. Zero fields match everything.
type Query struct {
	Start     time.Time
	End       time.Time
	Network   string
	LegalOnly bool
}

func (q Query) match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Network != "" && r.Network != q.Network {
		return false
	}
	return !q.LegalOnly || r.Legal
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
