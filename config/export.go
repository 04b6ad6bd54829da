package config

import "fmt"

// ExportConfig selects the files written after a solve.
type ExportConfig struct {
	// Format is "json" or "csv". Empty disables the timetable export.
	Format string `json:"format" validate:"omitempty,oneof=json csv"`
	Path   string `json:"path"`
	// Plot writes an HTML chart of the best delay per step when set.
	Plot string `json:"plot"`
}

// Validate checks that an export format comes with a path.
func (c ExportConfig) Validate() error {
	if c.Format != "" && c.Path == "" {
		return fmt.Errorf("export: path is required for format %s", c.Format)
	}
	return nil
}
