// Package config loads the railplan configuration file.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/railplan/core/metrics"
	"github.com/kilianp07/railplan/infra/mqtt"
)

// EnvPrefix marks environment overrides, e.g. RAILPLAN_SEARCH__BUDGET_MS.
const EnvPrefix = "RAILPLAN_"

type Config struct {
	Search  SearchConfig   `json:"search"`
	Metrics metrics.Config `json:"metrics"`
	// MQTT publishes finished schedules when a broker is set.
	MQTT    mqtt.Config   `json:"mqtt"`
	Export  ExportConfig  `json:"export"`
	History HistoryConfig `json:"history"`
	Sentry  SentryConfig  `json:"sentry"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := Config{Search: DefaultSearch()}
	cfg.SetDefaults()
	return &cfg
}

// Load reads a YAML or JSON file, applies environment overrides, defaults
// and validation. An empty path loads only the environment. Search values
// start from DefaultSearch, so a zero written in the file is kept.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	cfg := Config{Search: DefaultSearch()}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every unset section field.
func (c *Config) SetDefaults() {
	c.Search.SetDefaults()
	c.History.SetDefaults()
}

// Validate checks struct tags and cross-field constraints.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return err
	}
	return c.History.Validate()
}
