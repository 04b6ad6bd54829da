package config

import (
	"time"

	"github.com/kilianp07/railplan/core/network"
	"github.com/kilianp07/railplan/core/rules"
	"github.com/kilianp07/railplan/core/search"
)

// SearchConfig holds the tabu search parameters.
type SearchConfig struct {
	// BudgetMS bounds the wall-clock time of a solve in milliseconds.
	BudgetMS int `json:"budget_ms" validate:"gt=0"`
	// TabuSize is the number of remembered state fingerprints.
	TabuSize int   `json:"tabu_size" validate:"gte=0"`
	Seed     int64 `json:"seed"`
	// Workers runs independent searches with seeds Seed..Seed+Workers-1.
	Workers       int `json:"workers" validate:"gte=1,lte=256"`
	MaxCandidates int `json:"max_candidates" validate:"gte=0"`
	// MaxTrains caps the number of trains moved, 0 moves every train.
	MaxTrains int `json:"max_trains" validate:"gte=0"`
	// Horizon forces the simulated time bound when positive.
	Horizon       int  `json:"horizon" validate:"gte=0"`
	TrackProgress bool `json:"track_progress"`
	// Debug checks state consistency after every step and panics on drift.
	Debug bool `json:"debug"`
	// WaitThreshold enables the wait-for-full-connection rule when positive.
	WaitThreshold float64 `json:"wait_threshold" validate:"gte=0"`
}

// DefaultSearch returns the driver defaults. Loading starts from these
// values, so TabuSize and MaxCandidates can still be set to zero.
func DefaultSearch() SearchConfig {
	return SearchConfig{
		BudgetMS:      int(search.DefaultBudget / time.Millisecond),
		TabuSize:      search.DefaultTabuSize,
		Workers:       1,
		MaxCandidates: search.DefaultMaxCandidates,
	}
}

// SetDefaults fills the fields for which zero is not a valid value.
func (c *SearchConfig) SetDefaults() {
	if c.BudgetMS == 0 {
		c.BudgetMS = int(search.DefaultBudget / time.Millisecond)
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
}

// Options converts the section into driver options.
func (c SearchConfig) Options() search.Options {
	return search.Options{
		Budget:        time.Duration(c.BudgetMS) * time.Millisecond,
		TabuSize:      c.TabuSize,
		Seed:          c.Seed,
		MaxCandidates: c.MaxCandidates,
		TrackProgress: c.TrackProgress,
		Debug:         c.Debug,
	}
}

// NetworkOptions converts the section into network build options.
func (c SearchConfig) NetworkOptions() network.Options {
	return network.Options{Horizon: c.Horizon, MaxTrains: c.MaxTrains}
}

// Engine returns the rule engine selected by the section.
func (c SearchConfig) Engine() *rules.Engine {
	if c.WaitThreshold > 0 {
		return rules.NewEngine(rules.WithWaitForConnection(rules.Catalog(), c.WaitThreshold))
	}
	return rules.Default()
}
