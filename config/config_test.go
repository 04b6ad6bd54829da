package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/railplan/core/search"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `search:
  budget_ms: 2500
  tabu_size: 1000
  seed: 7
  workers: 4
  max_trains: 2
  horizon: 40
  track_progress: true
  wait_threshold: 0.7
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  topic: "plans"
  ack_topic: "plans/ack"
metrics:
  prom_port: 9100
  sinks:
    - type: "nop"
export:
  format: csv
  path: out.csv
history:
  enabled: true
  backend: sqlite
sentry:
  environment: test
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"budget_ms", cfg.Search.BudgetMS, 2500},
		{"tabu_size", cfg.Search.TabuSize, 1000},
		{"seed", cfg.Search.Seed, int64(7)},
		{"workers", cfg.Search.Workers, 4},
		{"max_candidates default", cfg.Search.MaxCandidates, search.DefaultMaxCandidates},
		{"horizon", cfg.Search.Horizon, 40},
		{"track_progress", cfg.Search.TrackProgress, true},
		{"wait_threshold", cfg.Search.WaitThreshold, 0.7},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"topic", cfg.MQTT.Topic, "plans"},
		{"ack_topic", cfg.MQTT.AckTopic, "plans/ack"},
		{"prom_port", cfg.Metrics.PromPort, 9100},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"export", cfg.Export.Format, "csv"},
		{"history backend", cfg.History.Backend, "sqlite"},
		{"history path default", cfg.History.Path, "railplan-runs.db"},
		{"sentry env", cfg.Sentry.Environment, "test"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}

	opts := cfg.Search.Options()
	assert.Equal(t, 2500*time.Millisecond, opts.Budget)
	assert.Equal(t, int64(7), opts.Seed)
	nopts := cfg.Search.NetworkOptions()
	assert.Equal(t, 40, nopts.Horizon)
	assert.Equal(t, 2, nopts.MaxTrains)
	assert.NotNil(t, cfg.Search.Engine())
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"search": {"budget_ms": 100}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Search.BudgetMS)
	assert.Equal(t, search.DefaultTabuSize, cfg.Search.TabuSize)
}

func TestLoadKeepsExplicitZero(t *testing.T) {
	path := writeConfig(t, "config.yaml", "search:\n  max_candidates: 0\n  tabu_size: 0\n  debug: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Search.MaxCandidates, "zero tries every move")
	assert.Equal(t, 0, cfg.Search.TabuSize)
	assert.Equal(t, 1, cfg.Search.Workers)
	opts := cfg.Search.Options()
	assert.Zero(t, opts.MaxCandidates)
	assert.True(t, opts.Debug)

	cfg.SetDefaults()
	assert.Equal(t, 0, cfg.Search.MaxCandidates, "defaults do not overwrite a loaded zero")
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, int(search.DefaultBudget/time.Millisecond), cfg.Search.BudgetMS)
	assert.Equal(t, 1, cfg.Search.Workers)
	assert.Equal(t, "jsonl", cfg.History.Backend)
	assert.Equal(t, "railplan-runs.jsonl", cfg.History.Path)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, ":8090", cfg.History.Listen)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "search:\n  budget_ms: 100\n")
	t.Setenv("RAILPLAN_SEARCH__BUDGET_MS", "900")
	t.Setenv("RAILPLAN_MQTT__TOPIC", "env/topic")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.Search.BudgetMS)
	assert.Equal(t, "env/topic", cfg.MQTT.Topic)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		name string
		data string
	}{
		"format":         {"config.toml", ""},
		"workers":        {"config.yaml", "search:\n  workers: -1\n"},
		"export format":  {"config.yaml", "export:\n  format: xml\n  path: x\n"},
		"export path":    {"config.yaml", "export:\n  format: json\n"},
		"history":        {"config.yaml", "history:\n  backend: redis\n"},
		"prom port":      {"config.yaml", "metrics:\n  prom_port: 70000\n"},
		"wait threshold": {"config.yaml", "search:\n  wait_threshold: -1\n"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, c.name, c.data))
			assert.Error(t, err)
		})
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
