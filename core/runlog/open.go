package runlog

import "fmt"

// Options select and tune a history backend.
type Options struct {
	Backend    string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Open returns the store for opts.Backend, "jsonl" or "sqlite".
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", "jsonl":
		return NewJSONLStore(opts.Path, opts.MaxSizeMB, opts.MaxBackups, opts.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(opts.Path)
	default:
		return nil, fmt.Errorf("runlog: unknown backend %q", opts.Backend)
	}
}
