package metrics

import "github.com/kilianp07/railplan/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PromPort serves /metrics when positive.
	PromPort int `json:"prom_port" validate:"gte=0,lte=65535"`
}
