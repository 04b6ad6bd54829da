package metrics

import "time"

// SearchResult summarizes a finished search run.
type SearchResult struct {
	RunID        string
	Network      string
	Seed         int64
	TotalDelay   int
	Arrived      int
	Passengers   int
	Legal        bool
	Attempts     int
	CheckedMoves int
	Elapsed      time.Duration
	Time         time.Time
}

// MetricsSink records search results for observability purposes.
type MetricsSink interface {
	RecordSearchResult(res SearchResult) error
}

// AttemptEvent describes one completed build attempt.
type AttemptEvent struct {
	RunID      string
	Seed       int64
	Attempt    int
	Steps      int
	Score      int
	Overloaded bool
	Time       time.Time
}

// AttemptRecorder records build attempts.
type AttemptRecorder interface {
	RecordAttempt(ev AttemptEvent) error
}

// ImprovementEvent is emitted when a search finds a better schedule.
type ImprovementEvent struct {
	RunID      string
	Seed       int64
	Attempt    int
	TotalDelay int
	Arrived    int
	Legal      bool
	Elapsed    time.Duration
	Time       time.Time
}

// ImprovementRecorder records improvements of the best schedule.
type ImprovementRecorder interface {
	RecordImprovement(ev ImprovementEvent) error
}

// ProgressPoint is the best delay known after a built step.
type ProgressPoint struct {
	Step      int
	Attempt   int
	BestDelay int
	Elapsed   time.Duration
}

// ProgressRecorder records the delay trace of a run.
type ProgressRecorder interface {
	RecordProgress(runID string, start time.Time, points []ProgressPoint) error
}

// NopSink implements MetricsSink and every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSearchResult(SearchResult) error                   { return nil }
func (NopSink) RecordAttempt(AttemptEvent) error                        { return nil }
func (NopSink) RecordImprovement(ImprovementEvent) error                { return nil }
func (NopSink) RecordProgress(string, time.Time, []ProgressPoint) error { return nil }
