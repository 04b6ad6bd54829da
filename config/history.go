package config

import (
	"fmt"

	"github.com/kilianp07/railplan/core/runlog"
)

// HistoryConfig defines settings for run history storage and rotation.
type HistoryConfig struct {
	// Enabled appends a record for every solve.
	Enabled bool `json:"enabled"`
	// Backend selects the store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb" validate:"gte=0"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups" validate:"gte=0"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days" validate:"gte=0"`
	// Listen is the address `railplan history --serve` binds to.
	Listen string `json:"listen"`
	// Token, when set, is required as a bearer token by the history API.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		if c.Backend == "sqlite" {
			c.Path = "railplan-runs.db"
		} else {
			c.Path = "railplan-runs.jsonl"
		}
	}
	if c.Listen == "" {
		c.Listen = ":8090"
	}
}

// Validate checks mandatory fields.
func (c HistoryConfig) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("history: unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("history: path is required")
	}
	return nil
}

// Options converts the section into store options.
func (c HistoryConfig) Options() runlog.Options {
	return runlog.Options{
		Backend:    c.Backend,
		Path:       c.Path,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}
