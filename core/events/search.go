package events

import "time"

// AttemptEvent is published after every build attempt.
type AttemptEvent struct {
	RunID      string
	Seed       int64
	Attempt    int
	Steps      int
	Score      int
	Overloaded bool
}

// ImprovementEvent is published when an attempt beats the best schedule.
type ImprovementEvent struct {
	RunID      string
	Seed       int64
	Attempt    int
	TotalDelay int
	Arrived    int
	Legal      bool
	Elapsed    time.Duration
}

// FinishedEvent is published once when a search returns.
type FinishedEvent struct {
	RunID        string
	Seed         int64
	Attempts     int
	CheckedMoves int
	TotalDelay   int
	Arrived      int
	Legal        bool
	Elapsed      time.Duration
}
