package metrics_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	metrics "github.com/kilianp07/railplan/core/metrics"
	_ "github.com/kilianp07/railplan/infra/metrics"
)

func TestConfigDecodeYAML(t *testing.T) {
	data := `sinks:
  - type: log
    conf:
      component: solver
  - type: nop
`
	var cfg metrics.Config
	require.NoError(t, yaml.Unmarshal([]byte(data), &cfg))
	require.Len(t, cfg.Sinks, 2)
	assert.Equal(t, "solver", cfg.Sinks[0].Conf["component"])

	s, err := metrics.NewMetricsSink(cfg.Sinks)
	require.NoError(t, err)
	m, ok := s.(*metrics.MultiSink)
	require.True(t, ok, "got %T", s)
	_, ok = m.Sinks[0].(metrics.ImprovementRecorder)
	assert.True(t, ok, "log sink records improvements")
}

func TestConfigDecodeJSONUnknownSink(t *testing.T) {
	data := `{"sinks":[{"type":"nop"},{"type":"statsd"}]}`
	var cfg metrics.Config
	require.NoError(t, json.Unmarshal([]byte(data), &cfg))
	_, err := metrics.NewMetricsSink(cfg.Sinks)
	assert.ErrorContains(t, err, `metrics sink 1 ("statsd")`)
	assert.Contains(t, metrics.SinkTypes(), "influx")
}
