package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/railplan/core/network"
	"github.com/kilianp07/railplan/core/parser"
)

// SearchDef holds the search parameters of a scenario.
type SearchDef struct {
	BudgetMS  int   `yaml:"budget_ms"`
	Seed      int64 `yaml:"seed"`
	Workers   int   `yaml:"workers"`
	MaxTrains int   `yaml:"max_trains"`
	Horizon   int   `yaml:"horizon"`
}

// Expected lists the checked outcomes. Unset fields are not checked.
type Expected struct {
	Legal       *bool `yaml:"legal,omitempty"`
	MaxDelay    *int  `yaml:"max_delay,omitempty"`
	Arrived     *int  `yaml:"arrived,omitempty"`
	MaxAttempts int   `yaml:"max_attempts,omitempty"`
}

type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Network     parser.Document `yaml:"network"`
	Search      SearchDef       `yaml:"search"`
	Expected    Expected        `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario name is required", path)
	}
	return &sc, nil
}

// Build resolves the scenario network.
func (sc *Scenario) Build() (*network.Network, error) {
	def, err := sc.Network.Definition()
	if err != nil {
		return nil, err
	}
	return network.New(def, network.Options{Horizon: sc.Search.Horizon, MaxTrains: sc.Search.MaxTrains})
}
